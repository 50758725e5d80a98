package email

import (
	"crypto/tls"
	"fmt"
	"strconv"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Client sends transactional mail over SMTP.
type Client struct {
	host      string
	port      int
	user      string
	password  string
	fromName  string
	fromEmail string
	logger    *zap.Logger
}

// NewClient builds an SMTP mail client. portStr comes straight from the
// environment.
func NewClient(host, portStr, user, password, fromName, fromEmail string, logger *zap.Logger) (*Client, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port: %w", err)
	}

	return &Client{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
		logger:    logger,
	}, nil
}

// SendEmail delivers a single HTML message.
func (c *Client) SendEmail(to, subject, htmlBody string) error {
	m := mail.NewMsg()

	if err := m.From(fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, htmlBody)

	c.logger.Debug("connecting to SMTP server",
		zap.String("host", c.host), zap.Int("port", c.port))

	client, err := mail.NewClient(c.host,
		mail.WithPort(c.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.user),
		mail.WithPassword(c.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{
			ServerName: c.host,
		}),
	)
	if err != nil {
		return fmt.Errorf("creating SMTP client (host=%s port=%d): %w", c.host, c.port, err)
	}

	if err := client.DialAndSend(m); err != nil {
		return fmt.Errorf("sending mail (host=%s port=%d): %w", c.host, c.port, err)
	}
	return nil
}

// BookingInfo carries the reservation data rendered into the
// confirmation mail.
type BookingInfo struct {
	ReservationID string
	HostelName    string
	GuestName     string
	GuestEmail    string
	RoomName      string
	CheckIn       time.Time
	CheckOut      time.Time
	Nights        int
	Guests        int
	Total         float64
	Language      string // "es" or "en"
}

// SendBookingConfirmation sends the reservation confirmation mail in the
// guest's language. Spanish is the default.
func (c *Client) SendBookingConfirmation(info BookingInfo) error {
	subject := fmt.Sprintf("Confirmación de Reserva - %s", info.HostelName)
	if info.Language == "en" {
		subject = fmt.Sprintf("Booking Confirmation - %s", info.HostelName)
	}
	return c.SendEmail(info.GuestEmail, subject, confirmationHTML(info))
}

type confirmationLabels struct {
	Title, Greeting, Intro, Reservation, Room, CheckIn, CheckOut string
	Nights, Guests, Total, Footer, NoReply                       string
}

var confirmationES = confirmationLabels{
	Title:       "¡Reserva Confirmada!",
	Greeting:    "Hola",
	Intro:       "Tu reserva ha sido confirmada. Estos son los detalles:",
	Reservation: "Reserva",
	Room:        "Habitación",
	CheckIn:     "Check-in",
	CheckOut:    "Check-out",
	Nights:      "Noches",
	Guests:      "Huéspedes",
	Total:       "Total",
	Footer:      "Gracias por reservar con nosotros. ¡Te esperamos!",
	NoReply:     "Este es un correo automático, por favor no responder.",
}

var confirmationEN = confirmationLabels{
	Title:       "Booking Confirmed!",
	Greeting:    "Hi",
	Intro:       "Your booking has been confirmed. Here are the details:",
	Reservation: "Booking",
	Room:        "Room",
	CheckIn:     "Check-in",
	CheckOut:    "Check-out",
	Nights:      "Nights",
	Guests:      "Guests",
	Total:       "Total",
	Footer:      "Thank you for booking with us. See you soon!",
	NoReply:     "This is an automated message, please do not reply.",
}

func confirmationHTML(info BookingInfo) string {
	labels := confirmationES
	if info.Language == "en" {
		labels = confirmationEN
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4;">
	<table width="100%%" cellpadding="0" cellspacing="0" style="background-color: #f4f4f4; padding: 20px;">
		<tr>
			<td align="center">
				<table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden;">
					<tr>
						<td style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 40px 20px; text-align: center;">
							<h1 style="color: #ffffff; margin: 0; font-size: 28px;">%s</h1>
							<p style="color: #ffffff; margin: 10px 0 0 0; font-size: 16px;">%s</p>
						</td>
					</tr>
					<tr>
						<td style="padding: 40px 30px;">
							<p style="color: #333; font-size: 16px;">%s %s,</p>
							<p style="color: #555; font-size: 15px;">%s</p>
							<div style="background-color: #f8f9fa; border-left: 4px solid #667eea; padding: 20px; margin: 20px 0;">
								<table width="100%%" cellpadding="0" cellspacing="0">
									<tr>
										<td style="padding: 8px 0;"><strong>%s:</strong></td>
										<td style="padding: 8px 0; text-align: right;">#%s</td>
									</tr>
									<tr>
										<td style="padding: 8px 0;"><strong>%s:</strong></td>
										<td style="padding: 8px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 8px 0;"><strong>%s:</strong></td>
										<td style="padding: 8px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 8px 0;"><strong>%s:</strong></td>
										<td style="padding: 8px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 8px 0;"><strong>%s:</strong></td>
										<td style="padding: 8px 0; text-align: right;">%d</td>
									</tr>
									<tr>
										<td style="padding: 8px 0;"><strong>%s:</strong></td>
										<td style="padding: 8px 0; text-align: right;">%d</td>
									</tr>
									<tr style="border-top: 2px solid #667eea;">
										<td style="padding: 15px 0 0 0;"><strong style="font-size: 18px;">%s:</strong></td>
										<td style="padding: 15px 0 0 0; text-align: right;"><strong style="font-size: 22px; color: #667eea;">$%.2f</strong></td>
									</tr>
								</table>
							</div>
							<p style="color: #555; font-size: 15px;">%s</p>
						</td>
					</tr>
					<tr>
						<td style="background-color: #f8f9fa; padding: 20px; text-align: center; border-top: 1px solid #e0e0e0;">
							<p style="margin: 0; color: #999; font-size: 12px;">%s</p>
						</td>
					</tr>
				</table>
			</td>
		</tr>
	</table>
</body>
</html>
`,
		labels.Title, info.HostelName,
		labels.Greeting, info.GuestName,
		labels.Intro,
		labels.Reservation, info.ReservationID,
		labels.Room, info.RoomName,
		labels.CheckIn, info.CheckIn.Format("02/01/2006"),
		labels.CheckOut, info.CheckOut.Format("02/01/2006"),
		labels.Nights, info.Nights,
		labels.Guests, info.Guests,
		labels.Total, info.Total,
		labels.Footer,
		labels.NoReply,
	)
}
