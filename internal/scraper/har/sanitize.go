package har

import (
	"net/url"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveKeys matches form field, query parameter and header names whose
// values must never be committed.
var sensitiveKeys = []*regexp.Regexp{
	// Credentials
	regexp.MustCompile(`(?i)passw`),
	regexp.MustCompile(`(?i)corpid`),
	regexp.MustCompile(`(?i)userid`),
	regexp.MustCompile(`(?i)credential`),
	regexp.MustCompile(`(?i)secret`),

	// Tokens and sessions
	regexp.MustCompile(`(?i)token`),
	regexp.MustCompile(`(?i)session`),
	regexp.MustCompile(`(?i)jsessionid`),
	regexp.MustCompile(`(?i)auth`),
	regexp.MustCompile(`(?i)api_?key`),
}

// SensitiveHeaders are headers that should be redacted.
var SensitiveHeaders = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-csrf-token":        true,
	"proxy-authorization": true,
}

// TextRule redacts a pattern found in page markup.
type TextRule struct {
	Pattern     *regexp.Regexp
	Replacement string
	Description string
}

// TextRules are applied to HTML bodies and fixtures.
var TextRules = []TextRule{
	{
		regexp.MustCompile(`\b\d{10}\b`),
		"XXXXXXXXXX",
		"Account number",
	},
	{
		regexp.MustCompile(`(<span[^>]*id="CurrentProfileDisp"[^>]*>)[^<]*(</span>)`),
		"${1}NAMA NASABAH${2}",
		"Profile display name",
	},
	{
		regexp.MustCompile(`(?i)(name="(?:CorpId|PassWord)"[^>]*value=")[^"]*(")`),
		"${1}" + redacted + "${2}",
		"Credential input value",
	},
	{
		regexp.MustCompile(`(?i)(jsessionid=)[A-Za-z0-9._-]+`),
		"${1}" + redacted,
		"Session id in URL",
	},
}

// RedactText applies TextRules to s and returns the redacted text with the
// description and match count of each rule that fired.
func RedactText(s string) (string, map[string]int) {
	hits := map[string]int{}
	for _, rule := range TextRules {
		matches := rule.Pattern.FindAllStringIndex(s, -1)
		if len(matches) == 0 {
			continue
		}
		hits[rule.Description] += len(matches)
		s = rule.Pattern.ReplaceAllString(s, rule.Replacement)
	}
	return s, hits
}

// Sanitize redacts sensitive data from a HAR log.
// Returns a new Log with sensitive data replaced by [REDACTED].
func Sanitize(log *Log) *Log {
	sanitized := &Log{
		Entries: make([]Entry, len(log.Entries)),
	}

	for i, entry := range log.Entries {
		sanitized.Entries[i] = Entry{
			Request:  sanitizeRequest(entry.Request),
			Response: sanitizeResponse(entry.Response),
		}
	}

	return sanitized
}

func sanitizeRequest(req Request) Request {
	return Request{
		Method:  req.Method,
		URL:     sanitizeURL(req.URL),
		Headers: sanitizeHeaders(req.Headers),
		Body:    SanitizeFormBody(req.Body),
	}
}

func sanitizeResponse(resp Response) Response {
	text := resp.Content.Text
	if resp.Content.Encoding != "base64" {
		text, _ = RedactText(text)
	}
	return Response{
		Status:  resp.Status,
		Headers: sanitizeHeaders(resp.Headers),
		Content: Content{
			MimeType: resp.Content.MimeType,
			Text:     text,
			Encoding: resp.Content.Encoding,
			Size:     resp.Content.Size,
		},
	}
}

func sanitizeURL(rawURL string) string {
	rawURL, _ = RedactText(rawURL)

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.RawQuery == "" {
		return rawURL
	}

	query := parsed.Query()
	for key := range query {
		if isSensitiveKey(key) {
			query.Set(key, redacted)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

func sanitizeHeaders(headers []Header) []Header {
	if headers == nil {
		return nil
	}
	sanitized := make([]Header, len(headers))

	for i, h := range headers {
		if SensitiveHeaders[strings.ToLower(h.Name)] || isSensitiveKey(h.Name) {
			sanitized[i] = Header{Name: h.Name, Value: redacted}
			continue
		}
		sanitized[i] = h
	}

	return sanitized
}

// SanitizeFormBody redacts sensitive keys of a form-encoded body. The portal
// only ever posts form bodies, anything else is passed through RedactText.
func SanitizeFormBody(body string) string {
	if body == "" || !strings.Contains(body, "=") {
		return body
	}

	values, err := url.ParseQuery(body)
	if err != nil {
		redactedBody, _ := RedactText(body)
		return redactedBody
	}

	for key, vals := range values {
		if isSensitiveKey(key) {
			values.Set(key, redacted)
			continue
		}
		for i, v := range vals {
			vals[i], _ = RedactText(v)
		}
	}

	return values.Encode()
}

func isSensitiveKey(key string) bool {
	for _, re := range sensitiveKeys {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}
