package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/duxcare/portal/internal/patient"
)

// welcomeEmailHTML composes the credentials email: personalized summary,
// login credentials, the magic link, and the patient's clinical snapshot.
func welcomeEmailHTML(p patient.Patient, password, magicToken, magicLink, hospitalName, summary string) string {
	var b strings.Builder

	b.WriteString(`<html><body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">`)
	b.WriteString(`<div style="max-width: 600px; margin: 0 auto; padding: 20px;">`)

	fmt.Fprintf(&b, `<div style="background: #8B1538; color: white; padding: 30px; border-radius: 10px; text-align: center; margin-bottom: 30px;">
<h1 style="margin: 0;">Welcome to Your Healthcare Portal</h1>
<p style="margin: 10px 0 0 0;">%s - Post-Hospital Care System</p>
</div>`, html.EscapeString(hospitalName))

	fmt.Fprintf(&b, `<div style="background: white; padding: 25px; border-radius: 8px; margin-bottom: 25px; border-left: 4px solid #8B1538;">
<h2 style="color: #8B1538; margin-top: 0;">Your Personalized Medical Summary</h2>
<div style="white-space: pre-line;">%s</div>
</div>`, html.EscapeString(summary))

	fmt.Fprintf(&b, `<div style="background: white; border: 2px solid #2c5aa0; padding: 25px; border-radius: 8px; margin-bottom: 25px;">
<h2 style="color: #2c5aa0; margin-top: 0;">Your Login Credentials</h2>
<p><strong>Patient ID:</strong> %s</p>
<p><strong>Password:</strong> <code>%s</code></p>
<h3 style="color: #2c5aa0;">Quick Access Magic Link</h3>
<p>For easy access, use the link below (valid for 7 days):</p>
<p style="text-align: center;"><a href="%s" style="background: #8B1538; color: white; padding: 15px 30px; text-decoration: none; border-radius: 6px; font-weight: bold;">Access Your Healthcare Portal</a></p>
<p style="font-size: 14px; color: #666;"><strong>Magic Token:</strong> <code>%s</code></p>
</div>`,
		html.EscapeString(p.PatientID),
		html.EscapeString(password),
		html.EscapeString(magicLink),
		html.EscapeString(magicToken))

	fmt.Fprintf(&b, `<div style="background: white; border: 2px solid #ffc107; padding: 25px; border-radius: 8px; margin-bottom: 25px;">
<h3 style="color: #856404; margin-top: 0;">Important Medical Information</h3>
<p><strong>Current Conditions:</strong> %s</p>
<p><strong>Current Medications:</strong> %s</p>
<p><strong>Known Allergies:</strong> %s</p>
<p><strong>Discharge Plan:</strong> %s</p>
</div>`,
		html.EscapeString(orNone(strings.Join(p.Conditions, ", "), "None listed")),
		medicationsHTML(p.Medications),
		html.EscapeString(orNone(strings.Join(p.Allergies, ", "), "None known")),
		html.EscapeString(orNone(p.DischargePlan, "Standard follow-up care")))

	fmt.Fprintf(&b, `<div style="text-align: center; padding: 20px; color: #999; font-size: 12px;">
<p>This is an automated message from %s. Please do not reply to this email.</p>
</div>`, html.EscapeString(hospitalName))

	b.WriteString(`</div></body></html>`)
	return b.String()
}

// simpleNotificationHTML wraps a plain message in the portal email frame.
func simpleNotificationHTML(message string) string {
	return fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<div style="background: #8B1538; color: white; padding: 20px; border-radius: 8px; text-align: center; margin-bottom: 20px;">
<h1 style="margin: 0;">Healthcare Notification</h1>
</div>
<div style="background: white; padding: 20px; border-radius: 8px; border: 1px solid #ddd;">
<p>%s</p>
</div>
<div style="text-align: center; padding: 15px; color: #666; font-size: 12px;">
<p>This is an automated message from your healthcare system.</p>
</div>
</div>
</body></html>`, html.EscapeString(message))
}

func medicationsHTML(meds []patient.Medication) string {
	if len(meds) == 0 {
		return "None prescribed"
	}
	lines := make([]string, 0, len(meds))
	for _, med := range meds {
		lines = append(lines, html.EscapeString(fmt.Sprintf("%s: %s %s", med.Name, med.Dosage, med.Frequency)))
	}
	return strings.Join(lines, "<br>")
}
