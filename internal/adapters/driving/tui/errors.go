package tui

import "errors"

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("tui: document service is required")

// ErrMissingQAService is returned when the question answering service is not provided.
var ErrMissingQAService = errors.New("tui: qa service is required")

// ErrMissingChallengeService is returned when the challenge service is not provided.
var ErrMissingChallengeService = errors.New("tui: challenge service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
