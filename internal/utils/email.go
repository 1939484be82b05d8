package utils

import (
	"fmt"
	"log"
	"os"

	"scholia_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// SendCheckoutConfirmation envoie le récapitulatif de commande après le
// retour de la page de paiement. Best-effort : un SMTP HS ne doit jamais
// faire échouer la route de succès.
func SendCheckoutConfirmation(to string, items []models.CartItem, total float64) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("⚠️ SMTP_HOST absent, email de confirmation non envoyé")
		return nil
	}

	msg := mail.NewMsg()

	if err := msg.From(os.Getenv("SMTP_FROM")); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject("✅ Votre commande Scholia est confirmée")
	msg.SetBodyString(mail.TypeTextHTML, generateConfirmationHTML(items, total))

	client, err := mail.NewClient(host,
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail de confirmation à", to)
	return client.DialAndSend(msg)
}

// generateConfirmationHTML génère le récapitulatif HTML de la commande
func generateConfirmationHTML(items []models.CartItem, total float64) string {
	itemsHTML := ""
	for _, item := range items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f€</td>
			</tr>`, item.Title, item.ProductType, item.Quantity, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Merci pour votre achat !</h2>
		<p>Bonjour,</p>
		<p>Votre paiement a bien été reçu. Vos contenus sont maintenant accessibles depuis votre espace d'apprentissage.</p>
		<table style="width: 100%%; border-collapse: collapse;">
			<thead>
				<tr style="text-align: left; border-bottom: 1px solid #ddd;">
					<th>Contenu</th>
					<th>Type</th>
					<th>Qté</th>
					<th>Sous-total</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
		</table>
		<p style="text-align: right; font-weight: bold;">Total : %.2f€</p>
		<p style="color: #888; font-size: 12px;">Scholia — contenus pédagogiques en ligne</p>
	</div>
</body>
</html>`, itemsHTML, total)
}
