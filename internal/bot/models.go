package bot

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumebot/internal/webhook"
)

type Attachment struct {
	ID       string
	Filename string
	URL      string
	Size     int
}

type Caller struct {
	ID    string
	Name  string
	Admin bool
}

// Invocation is one command call, independent of whether it arrived as a
// slash command or a prefixed text message.
type Invocation struct {
	Command     string
	Options     map[string]string
	Attachments map[string]*Attachment
	Caller      Caller
	ChannelID   string
	Responder   Responder
}

// Submission is owned by a single optimize-resume request and discarded when
// the request ends.
type Submission struct {
	ID             uuid.UUID
	Resume         Attachment
	Email          string
	JobDescription string
	UserID         string
	Username       string
	ChannelID      string
}

type missingArgumentError struct {
	name string
}

func (e *missingArgumentError) Error() string {
	return fmt.Sprintf("missing required argument: %s", e.name)
}

func newSubmission(inv *Invocation) (*Submission, error) {
	resume, ok := inv.Attachments[optionResume]
	if !ok || resume == nil {
		return nil, &missingArgumentError{name: optionResume}
	}
	email, ok := inv.Options[optionEmail]
	if !ok {
		return nil, &missingArgumentError{name: optionEmail}
	}
	jobDescription, ok := inv.Options[optionJobDescription]
	if !ok {
		return nil, &missingArgumentError{name: optionJobDescription}
	}

	return &Submission{
		ID:             uuid.New(),
		Resume:         *resume,
		Email:          email,
		JobDescription: jobDescription,
		UserID:         inv.Caller.ID,
		Username:       inv.Caller.Name,
		ChannelID:      inv.ChannelID,
	}, nil
}

func (s *Submission) Payload(resumeText string) webhook.Payload {
	return webhook.Payload{
		ResumeText:       resumeText,
		ResumeFilename:   s.Resume.Filename,
		Email:            s.Email,
		JobDescription:   s.JobDescription,
		UserID:           s.UserID,
		Username:         s.Username,
		DiscordChannelID: s.ChannelID,
	}
}
