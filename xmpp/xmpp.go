package xmpp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"
)

// ErrNotConfigured is returned by Send when the jid, password or recipient is missing
var ErrNotConfigured = errors.New("missing xmpp config")

type (
	// Config for the plugin.
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
	}

	Xmpp struct {
		Config Config
	}

	// Feedback is a message left by a viewer user
	Feedback struct {
		From    string `json:"from"`
		Subject string `json:"subject"`
		Text    string `json:"text"`
	}
)

func serverName(jid string) string {
	if i := strings.LastIndex(jid, "@"); i >= 0 {
		return jid[i+1:]
	}
	return jid
}

func (x Xmpp) Configured() bool {
	return len(x.Config.Jid) > 0 && len(x.Config.Password) > 0 && len(x.Config.To) > 0
}

func (f Feedback) String() string {
	from := f.From
	if from == "" {
		from = "anonymous"
	}
	subject := f.Subject
	if subject == "" {
		subject = "feedback"
	}
	return fmt.Sprintf("[nav-viewer] %s from %s\n%s", subject, from, f.Text)
}

func (x Xmpp) Send(message string) error {

	if !x.Configured() {
		log.Warn("missing xmpp config")

		return ErrNotConfigured
	}

	if len(x.Config.Host) == 0 {
		x.Config.Host = serverName(x.Config.Jid)
	}

	xmpp.DefaultConfig = tls.Config{
		InsecureSkipVerify: true,
	}

	options := xmpp.Options{
		Host:          x.Config.Host,
		User:          x.Config.Jid,
		Password:      x.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		Debug:         false,
		Session:       false,
		Status:        "xa",
		StatusMessage: "nav-viewer",
	}

	log.Debugf("Create xmpp client %s@%s", x.Config.Jid, x.Config.Host)
	talk, err := options.NewClient()
	if err != nil {
		log.WithError(err).Error("Error creating xmpp client")

		return err
	}
	defer talk.Close()

	log.Debugf("Send xmpp message to %s", x.Config.To)
	_, err = talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message})

	return err
}
