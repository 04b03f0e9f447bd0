package mailsmodels

import (
	"mealsaver-backend/utils"
)

func SubscriptionCanceled(email string) {
	subject := "Subject: Votre abonnement Meal Saver a été annulé \r\n"
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	body := `
	<div style="background-color: #2F9E44; width: 100%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%;  min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Abonnement annulé</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">Votre abonnement a bien été annulé. Votre compte repasse sur la formule basique, vos données de garde-manger restent accessibles.</td>
				</tr>
			</tbody>
		</table>
	</div>
`

	message := []byte(subject + mime + body)

	utils.SendMail(email, message)
}
