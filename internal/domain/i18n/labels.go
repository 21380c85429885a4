package i18n

import (
	"strings"
	"unicode"
)

// attributeLabels are the English labels of form attributes. They double as
// catalog keys.
var attributeLabels = map[string]string{
	"id":                  "ID",
	"epp_client_id":       "EPP client ID",
	"remoteid":            "Remote ID",
	"domain":              "Domain name",
	"domain_like":         "Domain name",
	"domains":             "Domains",
	"zone":                "Zone",
	"state":               "Status",
	"client":              "Client",
	"seller":              "Reseller",
	"created_date":        "Registered",
	"note":                "Notes",
	"nameservers":         "Name Servers",
	"nsips":               "Name server IPs",
	"transfer_date":       "Transfered",
	"expiration_date":     "System Expiration Time",
	"expires":             "Paid till",
	"since":               "Since Time",
	"lastop":              "Last Operation",
	"operated":            "Last Operation Time",
	"whois_protected":     "WHOIS",
	"is_secured":          "Protection",
	"is_holded":           "On hold",
	"is_freezed":          "Domain changes freezed",
	"wp_freezed":          "Domain WHOIS freezed",
	"foa_sent_to":         "FOA was sent to",
	"is_premium":          "Is premium",
	"prem_expires":        "Premium expires",
	"prem_daysleft":       "Premium days left",
	"premium_autorenewal": "Premium autorenewal",
	"url_fwval":           "Url forwarding",
	"mailval":             "Mail",
	"parkval":             "Parking",
	"daysleft":            "Days left",
	"is_expired":          "Is expired",
	"expires_soon":        "Expires soon",
	"autorenewal":         "Autorenewal",
	"password":            "Transfer (EPP) password",
	"receiver":            "Receiver",
	"sender":              "Sender",
	"pincode":             "Pin code",
	"registrant":          "Registrant contact",
	"admin":               "Admin contact",
	"tech":                "Tech contact",
	"billing":             "Billing contact",
}

// Label returns the English label of attr, humanizing unknown names
// ("zone_id" gives "Zone ID").
func Label(attr string) string {
	if l, ok := attributeLabels[attr]; ok {
		return l
	}
	return humanize(attr)
}

func humanize(attr string) string {
	words := strings.FieldsFunc(attr, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		if w == "id" {
			words[i] = "ID"
			continue
		}
		if i == 0 {
			r := []rune(w)
			r[0] = unicode.ToUpper(r[0])
			words[i] = string(r)
		}
	}
	return strings.Join(words, " ")
}
