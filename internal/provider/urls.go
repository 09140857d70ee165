package provider

import (
	"fmt"
	"net/url"
	"strings"
)

// appendQuery appends a raw query fragment to a URL, using ? or & depending
// on whether the URL already carries a query string. The fragment may contain
// Klarna placeholders like {{session_id}}, so it is appended verbatim.
func appendQuery(rawURL, fragment string) string {
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + fragment
	}
	return rawURL + "?" + fragment
}

func appendQueryParam(rawURL, key, value string) string {
	return appendQuery(rawURL, key+"="+url.QueryEscape(value))
}

// ResolveContinueURL resolves the URL to send the shopper to after a
// successful payment, propagating the sid and token correlation parameters
// from the inbound return request.
func (s HppSettings) ResolveContinueURL(query url.Values) (string, error) {
	if s.ContinueURL == "" {
		return "", fmt.Errorf("continue URL is not configured")
	}

	continueURL := s.ContinueURL
	if sid := query.Get("sid"); sid != "" {
		continueURL = appendQueryParam(continueURL, "sid", sid)
	}
	if token := query.Get("token"); token != "" {
		continueURL = appendQueryParam(continueURL, "token", token)
	}
	return continueURL, nil
}

// ResolveCancelURL resolves the URL for a shopper returning without paying.
// A failure reason routes to the error URL when one is configured; otherwise
// the reason is forwarded on the cancel URL.
func (s HppSettings) ResolveCancelURL(query url.Values) (string, error) {
	if s.CancelURL == "" {
		return "", fmt.Errorf("cancel URL is not configured")
	}

	cancelURL := s.CancelURL
	if sid := query.Get("sid"); sid != "" {
		cancelURL = appendQueryParam(cancelURL, "sid", sid)
	}

	reason := query.Get("reason")
	if reason == "failure" && s.ErrorURL != "" {
		errorURL := s.ErrorURL
		if sid := query.Get("sid"); sid != "" {
			errorURL = appendQueryParam(errorURL, "sid", sid)
		}
		return errorURL, nil
	}
	if reason != "" {
		cancelURL = appendQueryParam(cancelURL, "reason", reason)
	}
	return cancelURL, nil
}

// ResolveErrorURL resolves the configured error URL.
func (s HppSettings) ResolveErrorURL() (string, error) {
	if s.ErrorURL == "" {
		return "", fmt.Errorf("error URL is not configured")
	}
	return s.ErrorURL, nil
}
