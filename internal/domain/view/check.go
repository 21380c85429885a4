package view

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/text/currency"

	"domainpanel/internal/domain/catalog"
	"domainpanel/internal/domain/i18n"
	"domainpanel/internal/domain/models"
	"domainpanel/pkg/requestcontext"
)

// CheckState is the display state of one availability line.
type CheckState string

const (
	CheckAvailable   CheckState = "available"
	CheckUnavailable CheckState = "unavailable"
	// CheckPending is a line whose answer has not arrived yet.
	CheckPending CheckState = "checking"
)

const (
	addToCartPath = "/cart/add-to-cart-registration"
	whoisBaseURL  = "https://ahnames.com/ru/search/whois/"
)

// CheckLine is one row of the availability list.
type CheckLine struct {
	State     CheckState `json:"state"`
	Classes   string     `json:"classes"`
	Domain    string     `json:"domain"`
	Zone      string     `json:"zone"`
	FQDN      string     `json:"fqdn"`
	Price     string     `json:"price,omitempty"`
	PerYear   string     `json:"per_year,omitempty"`
	AddToCart string     `json:"add_to_cart_url,omitempty"`
	CartLabel string     `json:"add_to_cart_label,omitempty"`
	Whois     string     `json:"whois_url,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// NewCheckLine renders the line of fqdn. A nil result renders the pending
// line of a check still in flight. requested is the name the user typed;
// the matching line is marked popular.
func NewCheckLine(ctx context.Context, cat *catalog.Catalog, fqdn string, res *models.CheckResult, requested string) CheckLine {
	fqdn = strings.ToLower(fqdn)
	line := CheckLine{
		State:  CheckPending,
		Domain: models.Label(fqdn),
		Zone:   models.GetZone(fqdn),
		FQDN:   fqdn,
	}
	if res != nil {
		line.Domain, line.Zone, line.FQDN = res.Domain, res.Zone, res.FQDN
		line.State = CheckUnavailable
		if res.Available {
			line.State = CheckAvailable
		}
	}

	classes := []string{strings.TrimSpace(cat.FilterClasses(line.Zone)), string(line.State)}
	if strings.EqualFold(strings.TrimSpace(requested), line.FQDN) {
		classes = append(classes, "popular")
	}
	line.Classes = strings.Join(strings.Fields(strings.Join(classes, " ")), " ")

	switch line.State {
	case CheckAvailable:
		if res.Resource != nil {
			line.Price = FormatPrice(ctx, res.Resource.Price, res.Resource.Currency)
			line.PerYear = i18n.Translate(ctx, i18n.MsgYear)
		}
		line.AddToCart = addToCartPath + "?" + url.Values{"name": {line.FQDN}}.Encode()
		line.CartLabel = i18n.Translate(ctx, i18n.MsgAddToCart)
	case CheckUnavailable:
		line.Message = i18n.Translate(ctx, i18n.MsgNotAvailable)
		line.Whois = whoisBaseURL + "#" + line.FQDN
	}
	return line
}

// FormatPrice renders an amount in its currency for the request language.
// Unknown currency codes are printed after the amount as given.
func FormatPrice(ctx context.Context, amount float64, code string) string {
	p := i18n.Printer(requestcontext.Language(ctx))
	unit, err := currency.ParseISO(code)
	if err != nil {
		if code == "" {
			return p.Sprintf("%.2f", amount)
		}
		return p.Sprintf("%.2f %s", amount, strings.ToUpper(code))
	}
	return p.Sprint(currency.Symbol(unit.Amount(amount)))
}

// CheckLines renders the lines of a zone list check, in zone order. Zones
// without a result yet are pending.
func CheckLines(ctx context.Context, cat *catalog.Catalog, label string, zones []string, results map[string]*models.CheckResult, requested string) []CheckLine {
	lines := make([]CheckLine, 0, len(zones))
	for _, zone := range zones {
		fqdn := strings.ToLower(label + "." + strings.TrimPrefix(zone, "."))
		lines = append(lines, NewCheckLine(ctx, cat, fqdn, results[fqdn], requested))
	}
	return lines
}
