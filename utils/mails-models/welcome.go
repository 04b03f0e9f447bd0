package mailsmodels

import (
	"fmt"

	"mealsaver-backend/utils"
)

func Welcome(email string, name string) {
	subject := "Subject: Bienvenue sur Meal Saver \r\n"
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	body := fmt.Sprintf(`
	<div style="background-color: #2F9E44; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%;  min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Bienvenue sur Meal Saver, %s</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">Votre compte est prêt. Ajoutez vos premiers produits au garde-manger pour commencer à suivre votre consommation et réduire le gaspillage.</td>
				</tr>
			</tbody>
		</table>
	</div>
`, name)

	message := []byte(subject + mime + body)

	utils.SendMail(email, message)
}
