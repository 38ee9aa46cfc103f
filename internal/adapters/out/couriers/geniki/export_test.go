package geniki

import "time"

func (p *Provider) SetClock(now func() time.Time) {
	p.now = now
}

func (p *Provider) SetToken(token string, expiresAt time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
	p.expiresAt = expiresAt
}

func (p *Provider) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

func (p *Provider) InvalidateToken(rejected string) {
	p.invalidateToken(rejected)
}
