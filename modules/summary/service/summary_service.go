package service

import (
	"context"
	"fmt"
	"strings"

	"calendar-digest/core/constants"
	"calendar-digest/core/errors"
	"calendar-digest/core/logger"
	"calendar-digest/modules/summary/dto"
)

const (
	MsgTitleRequired   = "Event title is required."
	MsgSummaryFailed   = "An error occurred while generating the summary."
	noDescription      = "No description provided."
	noAttendees        = "No attendees listed"
	attendeesSeparator = ", "
)

const promptTemplate = `You are an expert meeting summarizer. Your goal is to generate a concise, professional summary for a past calendar event.
Based on the following details, infer the meeting's purpose and its most likely key discussion points or outcomes.
The output should be a single, well-written paragraph. Do not use markdown or special formatting.

---
Event Title: "%s"
Event Description: "%s"
Attendees: %s
---`

type SummaryService interface {
	Validate(req *dto.SummarizeRequest) *errors.AppError
	Summarize(ctx context.Context, req *dto.SummarizeRequest, onDelta func(string) error) *errors.AppError
}

type summaryService struct {
	generator Generator
}

func NewSummaryService(generator Generator) SummaryService {
	return &summaryService{generator: generator}
}

func (s *summaryService) Validate(req *dto.SummarizeRequest) *errors.AppError {
	if req == nil || req.Title == "" {
		return errors.NewAppError(errors.ErrInvalidInput, MsgTitleRequired, nil)
	}
	return nil
}

// Summarize streams a generated summary of the event through onDelta.
func (s *summaryService) Summarize(ctx context.Context, req *dto.SummarizeRequest, onDelta func(string) error) *errors.AppError {
	if appErr := s.Validate(req); appErr != nil {
		return appErr
	}

	ctx, cancel := context.WithTimeout(ctx, constants.SummaryTimeout)
	defer cancel()

	if err := s.generator.Stream(ctx, BuildPrompt(req), onDelta); err != nil {
		logger.Error("SummaryService:Summarize:Stream:Error", "title", req.Title, "error", err)
		return errors.NewAppError(errors.ErrProviderFailed, MsgSummaryFailed, err)
	}
	return nil
}

func BuildPrompt(req *dto.SummarizeRequest) string {
	description := req.Description
	if description == "" {
		description = noDescription
	}

	emails := make([]string, 0, len(req.Attendees))
	for _, a := range req.Attendees {
		if a.Email != "" {
			emails = append(emails, a.Email)
		}
	}
	attendees := noAttendees
	if len(emails) > 0 {
		attendees = strings.Join(emails, attendeesSeparator)
	}

	return fmt.Sprintf(promptTemplate, req.Title, description, attendees)
}
