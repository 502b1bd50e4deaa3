package restyutil

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/lc-at/bni-api/internal/scraper/har"
)

func formatHeaders(headers http.Header) string {
	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)

	var out strings.Builder
	for _, k := range names {
		for _, v := range headers[k] {
			if har.SensitiveHeaders[strings.ToLower(k)] {
				v = "[REDACTED]"
			}
			out.WriteString(fmt.Sprintf("%s: %s\n", k, v))
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func formatRequestBody(req *resty.Request) string {
	switch body := req.Body.(type) {
	case nil:
		return "<NO BODY>"
	case string:
		return har.SanitizeFormBody(body)
	case []byte:
		return har.SanitizeFormBody(string(body))
	default:
		return fmt.Sprintf("<%T body>", body)
	}
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: request body
// 5: response status
// 6: response url
// 7: response headers in ("Key: Value" format)
// 8: response body
const messageInfoTemplate = `---- REQUEST ----

%s %s

%s

%s

---- RESPONSE ----

%s %s

%s

%s`

func formatHttpMessage(res *resty.Response) string {
	var requestHeaders string
	if res.Request.RawRequest != nil {
		requestHeaders = formatHeaders(res.Request.RawRequest.Header)
	}

	responseUrl := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		responseUrl = res.RawResponse.Request.URL.String()
	}

	body, _ := har.RedactText(res.String())

	return fmt.Sprintf(
		messageInfoTemplate,

		res.Request.Method, res.Request.URL,
		requestHeaders,
		formatRequestBody(res.Request),

		strconv.Itoa(res.StatusCode()), responseUrl,
		formatHeaders(res.Header()),
		body,
	)
}
