// Package mailbox talks to the Gmail REST API and flattens raw messages into
// NormalizedMail records.
package mailbox

import (
	"context"
	"os"
	"sort"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"mail-signal-bot/internal/errs"
	"mail-signal-bot/internal/logger"
	"mail-signal-bot/internal/trace"
	"mail-signal-bot/internal/types"
)

const gmailUser = "me"

// OAuth playground redirect, same client setup the token was minted with.
const redirectURL = "https://developers.google.com/oauthplayground"

// Client is the Gmail implementation of interfaces.Mailbox. Auth runs on a
// refresh token; access tokens are renewed by the oauth2 transport.
type Client struct {
	srv *gmail.Service
}

// NewClient builds the Gmail service from GOOGLE_CLIENT_ID,
// GOOGLE_CLIENT_SECRET and GOOGLE_REFRESH_TOKEN.
func NewClient(ctx context.Context) (*Client, error) {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	if clientID == "" {
		return nil, &errs.ConfigError{Key: "GOOGLE_CLIENT_ID"}
	}
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientSecret == "" {
		return nil, &errs.ConfigError{Key: "GOOGLE_CLIENT_SECRET"}
	}
	refreshToken := os.Getenv("GOOGLE_REFRESH_TOKEN")
	if refreshToken == "" {
		return nil, &errs.ConfigError{Key: "GOOGLE_REFRESH_TOKEN"}
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{gmail.GmailModifyScope},
	}
	httpClient := conf.Client(ctx, &oauth2.Token{RefreshToken: refreshToken})

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, errs.External("gmail", "", err)
	}
	return &Client{srv: srv}, nil
}

// ListCandidates queries the mailbox and returns lightweight refs sorted
// newest first. A metadata fetch per hit supplies the internal date and the
// unread flag, which the list call does not carry.
func (c *Client) ListCandidates(ctx context.Context, query string, max int64) ([]types.MailRef, error) {
	ctx, span := trace.StartSpan(ctx, "gmail-list")
	defer span.End()

	list, err := c.srv.Users.Messages.List(gmailUser).Q(query).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, errs.External("gmail", "", err)
	}
	if len(list.Messages) == 0 {
		return nil, nil
	}

	refs := make([]types.MailRef, 0, len(list.Messages))
	for _, m := range list.Messages {
		if m.Id == "" {
			continue
		}
		meta, err := c.srv.Users.Messages.Get(gmailUser, m.Id).Format("metadata").Context(ctx).Do()
		if err != nil {
			return nil, errs.External("gmail", m.Id, err)
		}
		refs = append(refs, types.MailRef{
			ID:           meta.Id,
			InternalDate: meta.InternalDate,
			Unread:       hasLabel(meta.LabelIds, "UNREAD"),
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].InternalDate > refs[j].InternalDate
	})
	return refs, nil
}

// FetchMail retrieves the full MIME tree for one message and normalizes it.
func (c *Client) FetchMail(ctx context.Context, id string) (types.NormalizedMail, error) {
	ctx, span := trace.StartSpan(ctx, "gmail-fetch")
	defer span.End()

	msg, err := c.srv.Users.Messages.Get(gmailUser, id).Format("full").Context(ctx).Do()
	if err != nil {
		return types.NormalizedMail{}, errs.External("gmail", id, err)
	}
	return Normalize(msg)
}

// MarkRead removes the UNREAD label, acknowledging the message as processed.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	ctx, span := trace.StartSpan(ctx, "gmail-mark-read")
	defer span.End()

	req := &gmail.ModifyMessageRequest{RemoveLabelIds: []string{"UNREAD"}}
	if _, err := c.srv.Users.Messages.Modify(gmailUser, id, req).Context(ctx).Do(); err != nil {
		return errs.External("gmail", id, err)
	}
	logger.Debug(ctx, "Marked mail as read", "mail_id", id)
	return nil
}

func hasLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}
