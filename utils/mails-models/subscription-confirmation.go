package mailsmodels

import (
	"fmt"

	"mealsaver-backend/utils"
)

func SubscriptionConfirmation(email string, planTier string) {
	subject := "Subject: Votre abonnement Meal Saver est actif \r\n"
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	body := fmt.Sprintf(`
	<div style="background-color: #2F9E44; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%;  min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Merci pour votre abonnement</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">Votre formule est maintenant active :</td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">
						<p style="font-weight: bold; color: #2F9E44; text-align:center;">%s</p>
					</td>
				</tr>
			</tbody>
		</table>
	</div>
`, planTier)

	message := []byte(subject + mime + body)

	utils.SendMail(email, message)
}
