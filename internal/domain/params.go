package domain

// HTTPRequestParams are the execution parameters of the urlplug plugin.
// Timeout, ssl_cert_bypass and success_match are opaque pass-through
// fields; their semantics belong to the plugin, not to this client.
type HTTPRequestParams struct {
	Method string `json:"method"`
	URL    string `json:"url"`

	Data    string `json:"data"`
	Headers string `json:"headers"`
	Timeout int    `json:"timeout"`

	Follow        Flag `json:"follow"`
	SSLCertBypass Flag `json:"ssl_cert_bypass"`
	SuccessMatch  Flag `json:"success_match"`
}
