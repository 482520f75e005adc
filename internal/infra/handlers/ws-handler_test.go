package handlers

import (
	"encoding/base64"
	"testing"

	"emotional-analysis/internal/domain/dto"
)

func TestDecodeAudioMessage(t *testing.T) {
	lat := 51.5
	msg := dto.InboundMessage{
		Type:        dto.TypeAudioData,
		Audio:       base64.StdEncoding.EncodeToString([]byte("wav-bytes")),
		CallerID:    42,
		PhoneNumber: "+15550042",
		Latitude:    &lat,
		Duration:    3,
	}

	req, err := decodeAudioMessage(msg)
	if err != nil {
		t.Fatalf("decodeAudioMessage: %v", err)
	}
	if string(req.Payload) != "wav-bytes" {
		t.Errorf("payload = %q", req.Payload)
	}
	if req.CallerID != 42 || req.PhoneNumber != "+15550042" || req.Duration != 3 {
		t.Errorf("metadata not carried through: %+v", req)
	}
	if req.Latitude == nil || *req.Latitude != 51.5 {
		t.Errorf("latitude not carried through")
	}
	if req.Longitude != nil {
		t.Errorf("absent longitude should stay nil")
	}
}

func TestDecodeAudioMessageRejectsEmptyAudio(t *testing.T) {
	if _, err := decodeAudioMessage(dto.InboundMessage{Type: dto.TypeAudioData}); err == nil {
		t.Fatal("expected error for empty audio")
	}
}

func TestDecodeAudioMessageRejectsBadBase64(t *testing.T) {
	msg := dto.InboundMessage{Type: dto.TypeAudioData, Audio: "!!not-base64!!"}
	if _, err := decodeAudioMessage(msg); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestDecodeAudioMessageRejectsNegativeDuration(t *testing.T) {
	msg := dto.InboundMessage{
		Type:     dto.TypeAudioData,
		Audio:    base64.StdEncoding.EncodeToString([]byte("x")),
		Duration: -1,
	}
	if _, err := decodeAudioMessage(msg); err == nil {
		t.Fatal("expected error for negative duration")
	}
}
