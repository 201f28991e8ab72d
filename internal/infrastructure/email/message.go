// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

const crlf = "\r\n"

// noticeBoundary separates the alternative parts of a portal notice. The
// templates never emit this marker, so a fixed boundary is safe.
const noticeBoundary = "==portal-notice-8f41c6=="

// composeNotice assembles a multipart/alternative message for a portal
// notice. The plain-text part comes first so clients that honor MIME
// ordering prefer the HTML rendering.
func composeNotice(recipient, subject, htmlBody, textBody string, config SMTPConfig) string {
	lines := []string{
		"From: " + config.From,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q", noticeBoundary),
		"",
		"--" + noticeBoundary,
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		textBody,
		"--" + noticeBoundary,
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
		"--" + noticeBoundary + "--",
	}
	return strings.Join(lines, crlf) + crlf
}

// deliverNotice sends a composed notice to one recipient over SMTP.
// Credentials are optional; a bare relay is used when none are configured.
func deliverNotice(recipient, message string, config SMTPConfig) error {
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	if err := smtp.SendMail(addr, auth, config.From, []string{recipient}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
