package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/user-admin/pkg/mailer"
	mailtpl "github.com/oksasatya/user-admin/pkg/mailer/templates"
)

func SubjectForUniversal(data map[string]any) string {
	typeStr := fmt.Sprintf("%v", data["Type"])
	switch strings.ToLower(typeStr) {
	case mailtpl.AccountCreated:
		return "Your account has been created"
	case mailtpl.AccountBlocked:
		return "Your account has been blocked"
	case mailtpl.AccountActivated:
		return "Your account has been activated"
	default:
		return "Notification"
	}
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// MapToUniversal rewrites per-type template names to the universal template,
// keeping the original name as the Type.
func MapToUniversal(job *mailer.EmailJob) {
	switch strings.ToLower(job.Template) {
	case mailtpl.AccountCreated, mailtpl.AccountBlocked, mailtpl.AccountActivated:
		if job.Data == nil {
			job.Data = map[string]any{}
		}
		if v, ok := job.Data["Type"]; !ok || fmt.Sprintf("%v", v) == "" {
			job.Data["Type"] = strings.ToLower(job.Template)
		}
		job.Template = mailtpl.Universal
	}
}
