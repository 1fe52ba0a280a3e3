package account

import (
	"bufio"
	"os"
	"strings"

	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/errx"
)

// DomainBlocklist rejects registrations from listed e-mail domains.
type DomainBlocklist struct {
	domains map[string]struct{}
}

// NewDomainBlocklist builds the list from config. Blank lines and lines
// starting with # in the optional file are skipped.
func NewDomainBlocklist(cfg config.AccountConfig) (*DomainBlocklist, error) {
	b := &DomainBlocklist{domains: make(map[string]struct{})}
	for _, d := range cfg.BlockedDomains {
		b.add(d)
	}

	if cfg.BlockedDomainsFile == "" {
		return b, nil
	}
	f, err := os.Open(cfg.BlockedDomainsFile)
	if err != nil {
		return nil, errx.Wrap(err, "failed to open blocked domains file", errx.TypeInternal).
			WithDetail("path", cfg.BlockedDomainsFile)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		b.add(line)
	}
	if err := sc.Err(); err != nil {
		return nil, errx.Wrap(err, "failed to read blocked domains file", errx.TypeInternal)
	}
	return b, nil
}

func (b *DomainBlocklist) add(domain string) {
	if d := strings.ToLower(strings.TrimSpace(domain)); d != "" {
		b.domains[d] = struct{}{}
	}
}

// Blocks reports whether the domain of email is listed.
func (b *DomainBlocklist) Blocks(email string) bool {
	if b == nil {
		return false
	}
	i := strings.LastIndex(email, "@")
	_, ok := b.domains[strings.ToLower(email[i+1:])]
	return ok
}

func (b *DomainBlocklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.domains)
}
