package email

import "html/template"

// Templates are parsed once at startup. html/template autoescapes every
// interpolated field, so sender-supplied text can never inject markup.

var contactTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #f8f9fa; padding: 20px; text-align: center; border-radius: 4px; }
        .content { padding: 20px 0; }
        .message { background-color: #f8f9fa; padding: 16px; border-left: 4px solid #0066cc; white-space: pre-wrap; }
        .meta { color: #666; font-size: 13px; margin-top: 20px; padding-top: 16px; border-top: 1px solid #eee; }
        .meta td { padding: 2px 12px 2px 0; vertical-align: top; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Contact Message</h1>
        </div>
        <div class="content">
            <p><strong>{{.Name}}</strong> &lt;{{.Email}}&gt; wrote:</p>
            <div class="message">{{.Message}}</div>
        </div>
        <div class="meta">
            <table>
                <tr><td>IP</td><td>{{.Meta.IP}}</td></tr>
                <tr><td>Location</td><td>{{.Meta.Location.City}}, {{.Meta.Location.Region}}, {{.Meta.Location.Country}}</td></tr>
                <tr><td>Network</td><td>{{.Meta.Location.Org}}</td></tr>
                <tr><td>Local time</td><td>{{.Meta.LocalTimestamp}}</td></tr>
                <tr><td>UTC time</td><td>{{.Meta.UTCTimestamp}}</td></tr>
                <tr><td>User agent</td><td>{{.Meta.UserAgent}}</td></tr>
                {{if .Meta.Referer}}<tr><td>Referrer</td><td>{{.Meta.Referer}}</td></tr>{{end}}
            </table>
        </div>
    </div>
</body>
</html>
`))

var alertTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #fff3cd; padding: 20px; text-align: center; border-left: 4px solid #ffc107; }
        .finding { background-color: #f8d7da; padding: 10px; margin: 8px 0; border-radius: 4px; }
        .warning { background-color: #fff3cd; padding: 10px; margin: 8px 0; border-radius: 4px; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 16px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>⚠️ Security Alert</h1>
            <p>Status: <strong>{{.Status}}</strong> — {{.Timestamp}}</p>
        </div>
        {{if .Leaks}}
        <h2>Secret Leaks</h2>
        {{range .Leaks}}
        <div class="finding">
            <strong>{{.Variable}}</strong> ({{.Severity}})<br>
            {{.Description}}
        </div>
        {{end}}
        {{end}}
        {{if .Threats}}
        <h2>Detected Threats</h2>
        {{range .Threats}}
        <div class="finding">
            <strong>{{.ThreatType}}</strong> ({{.Severity}}): {{.Description}}<br>
            <code>{{.Payload}}</code><br>
            {{.Recommendation}}
        </div>
        {{end}}
        {{end}}
        {{if .Warnings}}
        <h2>Public Variable Warnings</h2>
        {{range .Warnings}}
        <div class="warning"><strong>{{.Variable}}</strong>: {{.Reason}}</div>
        {{end}}
        {{end}}
        <div class="footer">
            <p>This is an automated message from the runtime security monitor.</p>
        </div>
    </div>
</body>
</html>
`))
