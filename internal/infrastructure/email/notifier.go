// Package email implementa el puerto Notifier sobre SMTP (gomail).
// Si no hay servidor SMTP configurado, el notifier queda deshabilitado y
// solo deja constancia en el log; los envíos son siempre best-effort.
package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/pos-inventario-api/internal/application/ports"
	"github.com/jhoicas/pos-inventario-api/pkg/config"
	"github.com/jhoicas/pos-inventario-api/pkg/logger"
)

var _ ports.Notifier = (*Notifier)(nil)

// Notifier envía correos de alertas de stock, bienvenida y OTP.
type Notifier struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewNotifier construye el notifier.
func NewNotifier(cfg config.SMTPConfig, log *logger.Logger) *Notifier {
	if !cfg.Enabled() {
		log.Warn().Msg("SMTP no configurado: los correos solo se loguearán")
	}
	return &Notifier{cfg: cfg, log: log}
}

// SendLowStockAlert avisa a un admin que un item quedó con stock bajo.
func (n *Notifier) SendLowStockAlert(ctx context.Context, to, itemName string, quantity, threshold int64) error {
	subject := fmt.Sprintf("Stock bajo: %s", itemName)
	body := fmt.Sprintf(
		"<p>El producto <b>%s</b> quedó con stock bajo.</p>"+
			"<p>Cantidad actual: <b>%d</b> (umbral: %d).</p>"+
			"<p>Considere reponer inventario pronto.</p>",
		itemName, quantity, threshold,
	)
	return n.send(ctx, to, subject, body)
}

// SendOutOfStockAlert avisa a un admin que un item se agotó.
func (n *Notifier) SendOutOfStockAlert(ctx context.Context, to, itemName, sku string) error {
	subject := fmt.Sprintf("Stock agotado: %s", itemName)
	body := fmt.Sprintf(
		"<p>El producto <b>%s</b> (SKU %s) se encuentra <b>agotado</b>.</p>"+
			"<p>No se podrán registrar más ventas hasta reponer inventario.</p>",
		itemName, sku,
	)
	return n.send(ctx, to, subject, body)
}

// SendWelcomeEmail da la bienvenida a un usuario recién registrado.
func (n *Notifier) SendWelcomeEmail(ctx context.Context, to, firstName string) error {
	subject := "Bienvenido al sistema de inventario"
	body := fmt.Sprintf(
		"<p>Hola %s,</p>"+
			"<p>Tu cuenta fue creada correctamente. Ya puedes iniciar sesión.</p>",
		firstName,
	)
	return n.send(ctx, to, subject, body)
}

// SendPasswordResetOTP envía el código de recuperación de contraseña.
func (n *Notifier) SendPasswordResetOTP(ctx context.Context, to, otp string) error {
	subject := "Código de recuperación de contraseña"
	body := fmt.Sprintf(
		"<p>Tu código de recuperación es: <b>%s</b></p>"+
			"<p>Vence en 10 minutos. Si no lo solicitaste, ignora este correo.</p>",
		otp,
	)
	return n.send(ctx, to, subject, body)
}

func (n *Notifier) send(ctx context.Context, to, subject, body string) error {
	if !n.cfg.Enabled() {
		n.log.Info().Str("to", to).Str("subject", subject).Msg("correo omitido (SMTP deshabilitado)")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", to, err)
	}
	return nil
}
