package relay

// CredentialSource supplies the bearer token and tenant id attached to
// outgoing calls. Implementations return empty strings when no credential is
// available; empty values attach no header.
type CredentialSource interface {
	Token() string
	TenantID() string
}

// AnonymousSource is the default credential source; it never attaches headers.
type AnonymousSource struct{}

func (AnonymousSource) Token() string    { return "" }
func (AnonymousSource) TenantID() string { return "" }

// StaticSource returns fixed credential values, typically loaded from config.
type StaticSource struct {
	APIToken string
	Tenant   string
}

func (s StaticSource) Token() string    { return s.APIToken }
func (s StaticSource) TenantID() string { return s.Tenant }

func ensureCredentials(cs CredentialSource) CredentialSource {
	if cs == nil {
		return AnonymousSource{}
	}
	return cs
}
