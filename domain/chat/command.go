package chat

import (
	"chat-relay/errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type SendDirectCommand struct {
	SenderID    string `validate:"required"`
	RecipientID string `validate:"required"`
	Content     string `validate:"required"`
}

type SendGroupCommand struct {
	SenderID   string `validate:"required"`
	GroupID    string `validate:"required"`
	SenderName string
	Content    string `validate:"required"`
}

type CreateGroupCommand struct {
	Name      string `validate:"required"`
	CreatorID string `validate:"required"`
	Members   []string
}

type FetchGroupMessagesCommand struct {
	GroupID     string `validate:"required"`
	RequesterID string `validate:"required"`
	Limit       int    `validate:"gte=0"`
	Before      *time.Time
}

// Validate trims free-text fields in place and checks the command.
// Every failure wraps errors.ErrValidation.
func Validate[C any](cmd *C) error {
	trimStrings(cmd)
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrValidation, describe(err))
	}
	return nil
}

func trimStrings(cmd any) {
	switch c := cmd.(type) {
	case *SendDirectCommand:
		c.Content = strings.TrimSpace(c.Content)
	case *SendGroupCommand:
		c.Content = strings.TrimSpace(c.Content)
		c.SenderName = strings.TrimSpace(c.SenderName)
	case *CreateGroupCommand:
		c.Name = strings.TrimSpace(c.Name)
	}
}

func describe(err error) string {
	var fields validator.ValidationErrors
	if ok := asValidationErrors(err, &fields); !ok || len(fields) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s is %s", f.Field(), f.Tag()))
	}
	return strings.Join(parts, ", ")
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	v, ok := err.(validator.ValidationErrors)
	if ok {
		*target = v
	}
	return ok
}
