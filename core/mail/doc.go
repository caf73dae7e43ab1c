// Package mail hands confirmation and notification emails to a delivery capability.
//
// GmailSender sends through the Gmail API, LogSender only logs, and Outbox keeps
// messages in memory for tests.
package mail
