package email

const layoutTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.GymName}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f4f5;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 32px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 10px; overflow: hidden;">
                    <tr>
                        <td style="background-color: #b91c1c; padding: 28px 24px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 26px; letter-spacing: 1px;">{{.GymName}}</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 32px 28px; color: #3f3f46; font-size: 16px; line-height: 1.6;">
                            {{.Body}}
                        </td>
                    </tr>
                    <tr>
                        <td style="background-color: #fafafa; padding: 20px; text-align: center; border-top: 1px solid #e4e4e7; color: #a1a1aa; font-size: 13px;">
                            Este correo fue enviado por {{.GymName}}
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`

const passwordResetTemplate = `<h2 style="margin: 0 0 16px 0;">Restablece tu contraseña</h2>
<p>Recibimos una solicitud para restablecer la contraseña de la cuenta <strong>{{.Email}}</strong>.</p>
<p>El enlace vence en <strong>1 hora</strong>.</p>
<p style="text-align: center; margin: 28px 0;">
    <a href="{{.ResetURL}}" style="display: inline-block; padding: 14px 28px; background-color: #b91c1c; color: #ffffff; text-decoration: none; border-radius: 6px; font-weight: 600;">Restablecer contraseña</a>
</p>
<p style="color: #71717a; font-size: 14px;">Si no solicitaste el cambio puedes ignorar este correo.</p>
<p style="color: #71717a; font-size: 14px; word-break: break-all;">{{.ResetURL}}</p>
`

// reminderMarkdown is rendered with text/template, then converted by goldmark.
const reminderMarkdown = `## Hola {{.ClientName}}

Tu plan **{{.Plan}}** en {{.GymName}} vence el **{{.ExpiresOn}}**
{{- if le .DaysRemaining 0}} (hoy){{else if eq .DaysRemaining 1}} (mañana){{else}} (en {{.DaysRemaining}} días){{end}}.

Renueva en recepción para no perder ni un día de entrenamiento.
{{if .Phone}}
Cualquier consulta escríbenos o llámanos al {{.Phone}}.
{{end}}
¡Te esperamos!
`
