package importer

// errors.go maps import errors to messages with support codes.
//
// Codes are grouped by where the problem is:
//
//	BND - the schema or column mapping does not fit the file
//	DOC - the workbook content (sheets, options)
//	IMP - the import run itself
//	FILE - the uploaded file
//	UPL - capacity, cancellation and timeouts
//	DB - persistence
//	ERR000 - anything else; check the logs for the original error
//
// Sentinel errors are matched with errors.Is first. Errors that only carry
// text, such as driver errors, are matched case-insensitively by substring;
// the first match wins.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/sheetmap/internal/core"
)

var (
	ErrUnknownSchema     = errors.New("unknown schema")
	ErrRunNotFound       = errors.New("import run not found")
	ErrNoAnnotated       = errors.New("no annotated workbook for this run")
	ErrNoDatabase        = errors.New("persistence requested but no database is configured")
	ErrNoFile            = errors.New("no file provided")
	ErrEmptyFile         = errors.New("empty file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// UserMessage is the user-facing form of an error.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{core.ErrFieldNotFound, UserMessage{"BND001", "The column mapping names a field this schema does not have", "Check the field names in the mapping"}},
	{core.ErrInvalidBinding, UserMessage{"BND002", "The schema or column mapping is invalid", "Check that every mapped column index is zero or greater"}},
	{core.ErrInstantiate, UserMessage{"BND003", "Records for this schema could not be created", "Please contact support"}},
	{core.ErrSheetNotFound, UserMessage{"DOC001", "The requested sheet does not exist in this workbook", "Check the sheet name or index"}},
	{core.ErrInvalidOptions, UserMessage{"DOC002", "The row or sheet options are inconsistent", "Make sure the start row is not after the end row"}},
	{ErrUnknownSchema, UserMessage{"IMP001", "This import type is not configured", "Pick one of the listed schemas"}},
	{ErrRunNotFound, UserMessage{"IMP002", "The import result is no longer available", "Run the import again"}},
	{ErrNoAnnotated, UserMessage{"IMP003", "No annotated workbook was produced for this import", "Enable error marking and upload an .xlsx file"}},
	{ErrNoDatabase, UserMessage{"IMP004", "Saving to the database is not available", "Run the import without saving"}},
	{ErrFileTooLarge, UserMessage{"FILE001", "File exceeds the maximum size", "Split the file into smaller files"}},
	{ErrUnsupportedFormat, UserMessage{"FILE003", "This file type is not supported", "Upload an .xlsx, .csv or .tsv file"}},
	{ErrNoFile, UserMessage{"FILE004", "No file was selected", "Please select a file to upload"}},
	{ErrEmptyFile, UserMessage{"FILE005", "The uploaded file is empty", "Please upload a file with data rows"}},
	{ErrTooManyImports, UserMessage{"UPL002", "Too many imports in progress", "Please wait a moment and try again"}},
}

var patternMessages = []struct {
	pattern string
	msg     UserMessage
}{
	{"invalid csv", UserMessage{"FILE002", "File is not a valid CSV", "Ensure the file is comma-separated"}},
	{"open workbook", UserMessage{"FILE006", "The workbook could not be read", "Save the file again as .xlsx and retry"}},
	{"zip: not a valid zip file", UserMessage{"FILE006", "The workbook could not be read", "Save the file again as .xlsx and retry"}},
	{"duplicate key", UserMessage{"DB001", "A record with this ID already exists", "Review the file for duplicates"}},
	{"violates foreign key", UserMessage{"DB003", "Referenced record does not exist", "Import the parent records first"}},
	{"does not exist", UserMessage{"DB005", "The destination table or column does not exist", "Check the schema's table and field names"}},
	{"connection refused", UserMessage{"DB004", "Unable to connect to database", "Please try again in a few moments"}},
	{"context canceled", UserMessage{"UPL004", "Request was cancelled", "Please try again"}},
	{"context deadline exceeded", UserMessage{"UPL005", "Import timed out", "Try a smaller file or try again later"}},
}

var defaultMessage = UserMessage{
	Code:    "ERR000",
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
}

// MapError converts an error to a user message. nil maps to the zero value.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	text := strings.ToLower(err.Error())
	for _, p := range patternMessages {
		if strings.Contains(text, p.pattern) {
			return p.msg
		}
	}

	return defaultMessage
}

// IsUserFacing reports whether err maps to a specific message.
func IsUserFacing(err error) bool {
	return err != nil && MapError(err).Code != defaultMessage.Code
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Code == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
