package core

import (
	"fmt"
	"strings"

	"cspmconsole/models"

	"github.com/tidwall/gjson"
)

// SupportedProviders lists the cloud providers credentials can be onboarded for.
var SupportedProviders = []string{"aws", "azure", "gcp", "alicloud", "ibm", "oci"}

// ValidateCredentialPayload checks the submitted credential document's shape
// for the given provider. It never calls the cloud APIs.
func ValidateCredentialPayload(provider, payload string) models.ValidationResult {
	if !gjson.Valid(payload) {
		return failResult("Credential document is not valid JSON")
	}
	doc := gjson.Parse(payload)

	switch strings.ToLower(provider) {
	case "aws":
		return validateAWS(doc)
	case "azure":
		return validateAzure(doc)
	case "gcp":
		return validateGCP(doc)
	case "alicloud":
		return validateAliCloud(doc)
	case "ibm":
		return validateIBM(doc)
	case "oci":
		return validateOCI(doc)
	default:
		return failResult(fmt.Sprintf("Unsupported provider %q", provider))
	}
}

// KeyIdentifier extracts a displayable key id from the payload for masking on
// reads. Returns empty when the provider keeps no stable key id.
func KeyIdentifier(provider, payload string) string {
	doc := gjson.Parse(payload)
	switch strings.ToLower(provider) {
	case "aws":
		return maskTail(doc.Get("access_key_id").String())
	case "azure":
		return maskTail(doc.Get("client_id").String())
	case "gcp":
		return doc.Get("client_email").String()
	case "alicloud":
		return maskTail(doc.Get("access_key_id").String())
	case "ibm":
		return maskTail(doc.Get("api_key").String())
	case "oci":
		return doc.Get("fingerprint").String()
	}
	return ""
}

func maskTail(s string) string {
	if len(s) <= 4 {
		return s
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func failResult(msg string, errs ...string) models.ValidationResult {
	return models.ValidationResult{Success: false, Message: msg, Errors: errs}
}

func requireFields(doc gjson.Result, fields ...string) []string {
	var missing []string
	for _, f := range fields {
		if !doc.Get(f).Exists() || doc.Get(f).String() == "" {
			missing = append(missing, fmt.Sprintf("missing required field %q", f))
		}
	}
	return missing
}

func validateAWS(doc gjson.Result) models.ValidationResult {
	if errs := requireFields(doc, "access_key_id", "secret_access_key"); len(errs) > 0 {
		return failResult("AWS credential document incomplete", errs...)
	}
	r := models.ValidationResult{Success: true, Message: "AWS credential shape OK"}
	keyID := doc.Get("access_key_id").String()
	if !strings.HasPrefix(keyID, "AKIA") && !strings.HasPrefix(keyID, "ASIA") {
		r.Warnings = append(r.Warnings, "access_key_id does not look like an AWS key id")
	}
	if strings.HasPrefix(keyID, "ASIA") && !doc.Get("session_token").Exists() {
		r.Warnings = append(r.Warnings, "temporary key id without session_token")
	}
	return r
}

func validateAzure(doc gjson.Result) models.ValidationResult {
	if errs := requireFields(doc, "tenant_id", "client_id", "client_secret", "subscription_id"); len(errs) > 0 {
		return failResult("Azure credential document incomplete", errs...)
	}
	return models.ValidationResult{
		Success:       true,
		Message:       "Azure credential shape OK",
		AccountNumber: doc.Get("subscription_id").String(),
	}
}

func validateGCP(doc gjson.Result) models.ValidationResult {
	if errs := requireFields(doc, "type", "project_id", "private_key", "client_email"); len(errs) > 0 {
		return failResult("GCP service account document incomplete", errs...)
	}
	if doc.Get("type").String() != "service_account" {
		return failResult(`GCP document "type" must be "service_account"`)
	}
	r := models.ValidationResult{
		Success:       true,
		Message:       "GCP service account shape OK",
		AccountNumber: doc.Get("project_id").String(),
	}
	if !strings.Contains(doc.Get("private_key").String(), "BEGIN PRIVATE KEY") {
		r.Warnings = append(r.Warnings, "private_key is not a PEM block")
	}
	return r
}

func validateAliCloud(doc gjson.Result) models.ValidationResult {
	if errs := requireFields(doc, "access_key_id", "access_key_secret"); len(errs) > 0 {
		return failResult("Alibaba Cloud credential document incomplete", errs...)
	}
	return models.ValidationResult{Success: true, Message: "Alibaba Cloud credential shape OK"}
}

func validateIBM(doc gjson.Result) models.ValidationResult {
	if errs := requireFields(doc, "api_key"); len(errs) > 0 {
		return failResult("IBM Cloud credential document incomplete", errs...)
	}
	r := models.ValidationResult{Success: true, Message: "IBM Cloud credential shape OK"}
	if doc.Get("account_id").Exists() {
		r.AccountNumber = doc.Get("account_id").String()
	}
	return r
}

func validateOCI(doc gjson.Result) models.ValidationResult {
	if errs := requireFields(doc, "tenancy_ocid", "user_ocid", "fingerprint", "key_content"); len(errs) > 0 {
		return failResult("OCI credential document incomplete", errs...)
	}
	r := models.ValidationResult{
		Success:       true,
		Message:       "OCI credential shape OK",
		AccountNumber: doc.Get("tenancy_ocid").String(),
	}
	if !strings.HasPrefix(doc.Get("tenancy_ocid").String(), "ocid1.tenancy.") {
		r.Warnings = append(r.Warnings, "tenancy_ocid does not look like a tenancy OCID")
	}
	return r
}
