package rules

import (
	"context"
	"regexp"
	"strings"

	"domainpanel/internal/domain/i18n"
)

// TransferPair is one domain and its EPP code from a batch.
type TransferPair struct {
	Domain   string `json:"domain"`
	Password string `json:"password"`
}

// TransferBatch is the parsed form of a multi-line transfer list. Errors are
// keyed by the domain, or by the raw line when no domain could be read.
type TransferBatch struct {
	Pairs  []TransferPair    `json:"success"`
	Errors map[string]string `json:"error,omitempty"`
}

var batchLine = regexp.MustCompile(`(?i)^([a-z0-9][0-9a-z.-]+)( +|\t+|,|;)(.*)`)

// ParseTransferBatch reads one "domain<sep>password" pair per line, where
// the separator is spaces, tabs, a comma or a semicolon. Blank lines are
// ignored and a repeated domain keeps its last password.
func ParseTransferBatch(ctx context.Context, text string) TransferBatch {
	batch := TransferBatch{Errors: map[string]string{}}
	index := map[string]int{}

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := batchLine.FindStringSubmatch(line)
		if m == nil {
			batch.Errors[line] = i18n.Translate(ctx, i18n.MsgBatchEmptyCode)
			continue
		}
		domain, ok := normalizeDomain(strings.ToLower(strings.TrimSpace(m[1])))
		if !ok || !strings.Contains(domain, ".") {
			batch.Errors[line] = i18n.Translate(ctx, i18n.MsgBatchUnknown)
			continue
		}
		password := strings.TrimSpace(m[3])
		if password == "" {
			batch.Errors[domain] = i18n.Translate(ctx, i18n.MsgBatchPassword)
			continue
		}
		if i, seen := index[domain]; seen {
			batch.Pairs[i].Password = password
			continue
		}
		index[domain] = len(batch.Pairs)
		batch.Pairs = append(batch.Pairs, TransferPair{Domain: domain, Password: password})
	}
	return batch
}
