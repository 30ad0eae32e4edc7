package imap

import (
	"fmt"
	"time"

	"legal-publication-bot/internal/logging"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

type StandardClient struct {
	client  *client.Client
	timeout time.Duration

	// selectMailbox overrides the server SELECT, for tests
	selectMailbox func(name string) error
}

// NewStandardClient creates a new StandardClient with a default timeout of 30 seconds for IMAP operations
func NewStandardClient() *StandardClient {
	return &StandardClient{
		timeout: 30 * time.Second,
	}
}

// Connect establishes a secure connection to the IMAP server using TLS. It returns an error if the connection fails.
func (c *StandardClient) Connect(server string) error {
	cl, err := client.DialTLS(server, nil)
	if err != nil {
		return fmt.Errorf("IMAP connection error: %w", err)
	}
	c.client = cl
	return nil
}

// Login authenticates the user with the IMAP server using the provided username and password.
func (c *StandardClient) Login(user, password string) error {
	if c.client == nil {
		return fmt.Errorf("not connected")
	}
	return c.client.Login(user, password)
}

// SelectLabel selects the configured label for subsequent operations. Gmail
// exposes labels as folders under several naming schemes, so a list of
// candidate formats is tried before falling back to INBOX. An empty name
// selects INBOX directly.
func (c *StandardClient) SelectLabel(name string) error {
	sel := c.selectMailbox
	if sel == nil {
		if c.client == nil {
			return fmt.Errorf("not connected")
		}
		sel = func(mailbox string) error {
			_, err := c.client.Select(mailbox, false)
			return err
		}
	}

	if name == "" {
		return sel("INBOX")
	}

	for _, candidate := range labelCandidates(name) {
		if err := sel(candidate); err == nil {
			return nil
		}
	}

	logging.Log.Warnf("Label %q not found, falling back to INBOX", name)
	return sel("INBOX")
}

// labelCandidates lists the folder names a Gmail label may be exposed as,
// in the order they are tried.
func labelCandidates(name string) []string {
	return []string{
		name,
		"[Gmail]/" + name,
		"INBOX/" + name,
	}
}

// ListUnseenUIDs retrieves the UIDs of unseen emails received within the
// configured lookback window.
func (c *StandardClient) ListUnseenUIDs(lookbackDays int) ([]uint32, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected")
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	if lookbackDays > 0 {
		criteria.Since = time.Now().AddDate(0, 0, -lookbackDays)
	}

	uids, err := c.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("error searching for unseen emails: %w", err)
	}

	return uids, nil
}

// FetchMessage retrieves the full email message corresponding to the specified UID.
func (c *StandardClient) FetchMessage(uid uint32) (*imap.Message, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected")
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	// BODY.PEEK keeps the message unread until the pipeline succeeds.
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchInternalDate, imap.FetchUid}

	prevTimeout := c.client.Timeout
	c.client.Timeout = c.timeout
	defer func() { c.client.Timeout = prevTimeout }()

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)

	go func() {
		done <- c.client.Fetch(seqSet, items, messages)
	}()

	var msg *imap.Message
	for m := range messages {
		msg = m
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("error fetching message UID %d: %w", uid, err)
	}

	if msg == nil {
		return nil, fmt.Errorf("no message retrieved for UID %d", uid)
	}

	return msg, nil
}

// MarkSeen marks the email with the specified UID as seen (read) on the IMAP server.
func (c *StandardClient) MarkSeen(uid uint32) error {
	if c.client == nil {
		return fmt.Errorf("not connected")
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}

	return c.client.Store(seqSet, item, flags, nil)
}

// Close logs out from the IMAP server and closes the connection.
func (c *StandardClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Logout()
}
