package mailbox

import (
	"encoding/base64"
	"errors"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"mail-signal-bot/internal/errs"
	"mail-signal-bot/internal/types"
)

// maxPartDepth bounds the MIME walk for pathological message structures.
const maxPartDepth = 32

// Normalize flattens a raw Gmail message into a NormalizedMail. A message
// without an id, thread id or payload is structurally broken and rejected
// outright; that is not a retryable condition.
func Normalize(msg *gmail.Message) (types.NormalizedMail, error) {
	if msg == nil || msg.Id == "" || msg.ThreadId == "" || msg.Payload == nil {
		id := ""
		if msg != nil {
			id = msg.Id
		}
		return types.NormalizedMail{}, errs.External("gmail", id, errors.New("message missing id, thread id or payload"))
	}

	headers := headerMap(msg.Payload.Headers)
	plain, html := extractBody(msg.Payload, 0)

	return types.NormalizedMail{
		ID:           msg.Id,
		ThreadID:     msg.ThreadId,
		Subject:      headers["subject"],
		Snippet:      msg.Snippet,
		From:         headers["from"],
		To:           headers["to"],
		Date:         headers["date"],
		PlainText:    plain,
		HTMLText:     html,
		Headers:      headers,
		InternalDate: msg.InternalDate,
	}, nil
}

// headerMap lowers every header name so lookups are case-insensitive.
func headerMap(headers []*gmail.MessagePartHeader) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		if h == nil || h.Name == "" {
			continue
		}
		m[strings.ToLower(h.Name)] = h.Value
	}
	return m
}

// extractBody walks the MIME tree depth-first, concatenating the decoded
// text/plain and text/html leaves separately.
func extractBody(part *gmail.MessagePart, depth int) (plain, html string) {
	if part == nil || depth > maxPartDepth {
		return "", ""
	}

	switch part.MimeType {
	case "text/plain":
		if part.Body != nil {
			return decodeBody(part.Body.Data), ""
		}
		return "", ""
	case "text/html":
		if part.Body != nil {
			return "", decodeBody(part.Body.Data)
		}
		return "", ""
	}

	var plainBuf, htmlBuf strings.Builder
	for _, child := range part.Parts {
		p, h := extractBody(child, depth+1)
		plainBuf.WriteString(p)
		htmlBuf.WriteString(h)
	}
	return plainBuf.String(), htmlBuf.String()
}

// decodeBody decodes Gmail's base64url payload encoding. Both padded and
// unpadded forms show up in practice.
func decodeBody(data string) string {
	if data == "" {
		return ""
	}
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	return ""
}
