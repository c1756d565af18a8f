package notify

import (
	"bytes"
	"html/template"
)

var reminderEmailTmpl = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background:#f8fafc;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">
  <div style="max-width:600px;margin:0 auto;padding:20px;">
    <div style="background:linear-gradient(135deg,#3b82f6,#2563eb);border-radius:16px 16px 0 0;padding:30px;text-align:center;">
      <h1 style="color:#fff;margin:0;font-size:24px;">Reminder Alert</h1>
    </div>
    <div style="background:#fff;padding:30px;border-radius:0 0 16px 16px;">
      <p style="color:#64748b;margin:0 0 20px;">Hi {{.UserName}},</p>
      <div style="background:#f1f5f9;border-radius:12px;padding:20px;margin-bottom:20px;">
        <h2 style="color:#1e293b;margin:0 0 10px;font-size:20px;">{{.Title}}</h2>
        {{if .Description}}<p style="color:#64748b;margin:0 0 15px;">{{.Description}}</p>{{end}}
        <span style="background:#dbeafe;color:#2563eb;padding:4px 12px;border-radius:20px;font-size:13px;">{{.Category}}</span>
        <span style="background:{{.PriorityBackground}};color:{{.PriorityColor}};padding:4px 12px;border-radius:20px;font-size:13px;">{{.Priority}} Priority</span>
      </div>
      <p style="color:#1e293b;font-size:16px;margin:0;"><strong>Due:</strong> {{.DateTime}}</p>
    </div>
  </div>
</body>
</html>
`))

var emiEmailTmpl = template.Must(template.New("emi").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background:#f8fafc;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">
  <div style="max-width:600px;margin:0 auto;padding:20px;">
    <div style="background:linear-gradient(135deg,#f59e0b,#d97706);border-radius:16px 16px 0 0;padding:30px;text-align:center;">
      <h1 style="color:#fff;margin:0;font-size:24px;">EMI Payment Reminder</h1>
      <p style="color:#fef3c7;margin:10px 0 0;font-size:14px;">{{.TimeUntilDue}}</p>
    </div>
    <div style="background:#fff;padding:30px;border-radius:0 0 16px 16px;">
      <p style="color:#64748b;margin:0 0 20px;">Hi {{.UserName}},</p>
      <p style="color:#1e293b;margin:0 0 20px;">Your EMI payment is coming up. Here are the details:</p>
      <div style="background:#f1f5f9;border-radius:12px;padding:20px;margin-bottom:20px;">
        <h2 style="color:#1e293b;margin:0 0 5px;font-size:20px;">{{.LoanTitle}}</h2>
        <p style="color:#64748b;margin:0 0 15px;font-size:14px;">{{.Platform}}</p>
        <table style="width:100%;border-collapse:collapse;">
          <tr>
            <td style="padding:8px 0;color:#64748b;font-size:14px;">EMI Amount</td>
            <td style="padding:8px 0;color:#1e293b;font-weight:600;text-align:right;">{{.EMIAmount}}</td>
          </tr>
          <tr>
            <td style="padding:8px 0;color:#64748b;font-size:14px;">Due Date</td>
            <td style="padding:8px 0;color:#1e293b;font-weight:600;text-align:right;">{{.DueDate}}</td>
          </tr>
          <tr>
            <td style="padding:8px 0;color:#64748b;font-size:14px;">Pending Balance</td>
            <td style="padding:8px 0;color:#dc2626;font-weight:600;text-align:right;">{{.PendingBalance}}</td>
          </tr>
        </table>
      </div>
      <p style="color:#64748b;font-size:13px;margin:0 0 5px;">Repayment Progress: <strong>{{.ProgressPercent}}%</strong></p>
      <div style="background:#e2e8f0;border-radius:10px;height:10px;overflow:hidden;margin-bottom:20px;">
        <div style="background:#16a34a;height:100%;width:{{.ProgressPercent}}%;"></div>
      </div>
      <p style="color:#64748b;font-size:13px;margin:0;text-align:center;">Please ensure sufficient balance in your account before the due date.</p>
    </div>
  </div>
</body>
</html>
`))

type reminderEmailData struct {
	UserName           string
	Title              string
	Description        string
	DateTime           string
	Category           string
	Priority           string
	PriorityBackground string
	PriorityColor      string
}

type emiEmailData struct {
	UserName        string
	LoanTitle       string
	Platform        string
	EMIAmount       string
	DueDate         string
	PendingBalance  string
	ProgressPercent int64
	TimeUntilDue    string
}

func priorityColors(priority string) (background, color string) {
	switch priority {
	case "High":
		return "#fee2e2", "#dc2626"
	case "Medium":
		return "#fef3c7", "#d97706"
	default:
		return "#dcfce7", "#16a34a"
	}
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
