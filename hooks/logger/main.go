// Package main provides a logging hook for Nidra.
// It appends every alert event to a plain text log file.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Event represents the input from the hook executor.
type Event struct {
	Type      string  `json:"type"`
	EAR       float64 `json:"ear"`
	LowFrames int     `json:"low_frames"`
	AlertSeq  int     `json:"alert_seq"`
	Timestamp int64   `json:"timestamp"`
}

// Response represents the output to the hook executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func main() {
	var event Event
	if err := json.NewDecoder(os.Stdin).Decode(&event); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode event: %v", err))
		return
	}

	if err := appendToLog(event); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to write log: %v", err))
		return
	}

	writeSuccessResponse()
}

// appendToLog writes the event as a single line to ~/.nidra/alerts.log.
func appendToLog(event Event) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	logPath := filepath.Join(homeDir, ".nidra", "alerts.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	when := time.UnixMilli(event.Timestamp).Format(time.RFC3339)
	line := fmt.Sprintf("%s %s alert=%d ear=%.3f low_frames=%d\n",
		when, event.Type, event.AlertSeq, event.EAR, event.LowFrames)

	_, err = f.WriteString(line)
	return err
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
