package mailparse

import (
	"io"
	"mime"
	"regexp"

	"legal-publication-bot/internal/models"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
)

// Parse decodes a fetched IMAP message into a Notice carrying the whole
// email body as publication text. Publication splitting happens afterwards,
// see Explode.
func Parse(msg *imap.Message) (*models.Notice, error) {
	section := &imap.BodySectionName{Peek: true}
	r := msg.GetBody(section)
	if r == nil {
		return nil, io.EOF
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, err
	}

	notice := &models.Notice{
		UID:        msg.SeqNum,
		ReceivedAt: msg.InternalDate,
		PubIndex:   1,
		PubTotal:   1,
		TraceID:    uuid.New().String(),
	}

	header := mr.Header

	notice.From = extractEmailAddress(header.Get("From"))

	decodedSubject, err := DecodeHeader(header.Get("Subject"))
	if err != nil {
		return nil, err
	}
	notice.Subject = decodedSubject

	// Collect body parts; text/plain wins, HTML is converted when it is all
	// the message carries.
	var plainBody, htmlBody string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, err := h.ContentType()
			if err != nil {
				continue
			}
			body, err := io.ReadAll(p.Body)
			if err != nil {
				continue
			}
			switch contentType {
			case "text/plain":
				plainBody = string(body)
			case "text/html":
				htmlBody = string(body)
			}
		}
	}

	if plainBody != "" {
		notice.Body = CleanText(plainBody)
	} else if htmlBody != "" {
		notice.Body = HTMLToText(htmlBody)
	}

	return notice, nil
}

// Explode splits a parsed notice into one notice per embedded publication.
// Single-publication emails come back unchanged.
func Explode(notice *models.Notice) []models.Notice {
	pubs := SplitPublications(notice.Body)
	if len(pubs) <= 1 {
		if len(pubs) == 1 {
			notice.Body = pubs[0].Text
		}
		return []models.Notice{*notice}
	}

	notices := make([]models.Notice, 0, len(pubs))
	for _, pub := range pubs {
		n := *notice
		n.Body = pub.Text
		n.PubIndex = pub.Number
		n.PubTotal = len(pubs)
		n.TraceID = uuid.New().String()
		notices = append(notices, n)
	}
	return notices
}

// Simple regex to extract email address from "From" header, which may contain name and email
func extractEmailAddress(fromHeader string) string {
	re := regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	return re.FindString(fromHeader)
}

// DecodeHeader decodes MIME-encoded headers (e.g., "=?UTF-8?B?...?=") to plain text
func DecodeHeader(encoded string) (string, error) {
	decoder := new(mime.WordDecoder)
	decoded, err := decoder.DecodeHeader(encoded)
	if err != nil {
		return "", err
	}
	return decoded, nil
}
