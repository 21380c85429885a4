// Package i18n holds attribute labels and the message catalog used to
// render labels, validation messages and view strings in the negotiated
// language.
package i18n

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"domainpanel/pkg/requestcontext"
)

// Supported lists the UI languages; the first is the fallback.
var Supported = []language.Tag{language.English, language.Russian}

// Message keys shared by the rules and the views. English text is the key.
const (
	MsgRequired         = "%s cannot be blank."
	MsgInteger          = "%s must be an integer."
	MsgBoolean          = "%s must be either \"1\" or \"0\"."
	MsgDate             = "The format of %s is invalid."
	MsgEmail            = "%s is not a valid email address."
	MsgDomainName       = "%s is not a valid domain name."
	MsgDomainPart       = "'%s' is not valid domain name"
	MsgIP               = "%s must be a valid IP address."
	MsgInvalid          = "%s is invalid."
	MsgWrongCode        = "Wrong code: %s"
	MsgWrongPincode     = "Wrong pincode"
	MsgCheckUnavailable = "The check could not be completed, try again later"
	MsgBatchEmptyCode   = "empty code"
	MsgBatchUnknown     = "unknown error"
	MsgBatchPassword    = "wrong input password"
	MsgFilteredList     = "filtered list"
	MsgFullList         = "full list"
	MsgDomains          = "Domains"
	MsgYear             = "year"
	MsgNotAvailable     = "Domain is not available"
	MsgAddToCart        = "Add to cart"
	MsgWhois            = "WHOIS"
	MsgNotOwner         = "You are not the owner of this domain"
	MsgNotFound         = "Domain not found"
	MsgCannotRenew      = "Domain cannot be renewed in its current state"
	MsgStateOK          = "Domains in «ok» state"
	MsgStateIncoming    = "Incoming transfer domains"
	MsgStateOutgoing    = "Outgoing transfer domains"
	MsgStateExpired     = "Expired domains"
	MsgUnsupportedCall  = "operation not supported"
)

var cat = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, ru := range russian {
		_ = b.SetString(language.Russian, key, ru)
	}
	return b
}

var russian = map[string]string{
	MsgRequired:         "Необходимо заполнить «%s».",
	MsgInteger:          "Значение «%s» должно быть целым числом.",
	MsgBoolean:          "Значение «%s» должно быть равно «1» или «0».",
	MsgDate:             "Неверный формат значения «%s».",
	MsgEmail:            "Значение «%s» не является правильным email адресом.",
	MsgDomainName:       "Значение «%s» не является правильным доменным именем.",
	MsgDomainPart:       "'%s' не является правильным доменным именем",
	MsgIP:               "Значение «%s» должно быть правильным IP адресом.",
	MsgInvalid:          "Значение «%s» неверно.",
	MsgWrongCode:        "Неверный код: %s",
	MsgWrongPincode:     "Неверный пин-код",
	MsgCheckUnavailable: "Проверка не выполнена, повторите попытку позже",
	MsgBatchEmptyCode:   "не указан код",
	MsgBatchUnknown:     "неизвестная ошибка",
	MsgBatchPassword:    "неверный пароль",
	MsgFilteredList:     "отфильтрованный список",
	MsgFullList:         "полный список",
	MsgDomains:          "Домены",
	MsgYear:             "год",
	MsgNotAvailable:     "Домен недоступен",
	MsgAddToCart:        "В корзину",
	MsgNotOwner:         "Вы не являетесь владельцем домена",
	MsgNotFound:         "Домен не найден",
	MsgCannotRenew:      "Домен не может быть продлён в текущем состоянии",
	MsgStateOK:          "Домены в состоянии «ok»",
	MsgStateIncoming:    "Входящие трансферы",
	MsgStateOutgoing:    "Исходящие трансферы",
	MsgStateExpired:     "Истёкшие домены",

	"Domain name":             "Доменное имя",
	"Notes":                   "Заметки",
	"Name Servers":            "Серверы имён",
	"Paid till":               "Оплачен до",
	"Transfer (EPP) password": "Пароль трансфера (EPP)",
	"Receiver":                "Получатель",
	"Pin code":                "Пин-код",
	"Registrant contact":      "Контакт владельца",
	"Admin contact":           "Административный контакт",
	"Tech contact":            "Технический контакт",
	"Billing contact":         "Платёжный контакт",
	"Zone":                    "Зона",
	"Status":                  "Статус",
	"Client":                  "Клиент",
	"Reseller":                "Реселлер",
	"Registered":              "Зарегистрирован",
	"Protection":              "Защита",
	"Autorenewal":             "Автопродление",
}

// Printer returns a printer for tag backed by the catalog.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

// T formats key in the language negotiated for ctx.
func T(ctx context.Context, key string, args ...any) string {
	return Printer(requestcontext.Language(ctx)).Sprintf(key, args...)
}

// Translate returns the translation of a plain key with no verbs, such as a
// label or a state option.
func Translate(ctx context.Context, key string) string {
	var noArgs []any
	return Printer(requestcontext.Language(ctx)).Sprintf(key, noArgs...)
}

// TLabel returns the translated label of attr.
func TLabel(ctx context.Context, attr string) string {
	return Translate(ctx, Label(attr))
}
