package wsframe

import (
	"bytes"
	"testing"
)

func TestWriteParseFrameRoundTrip(t *testing.T) {
	payload := []byte(`{"id":1,"jsonrpc":"2.0","method":"system_name"}`)

	var buf [256]byte
	n, err := WriteFrame(buf[:], OpText, payload)
	if err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}

	// FIN + opcode byte.
	if buf[0] != 0x80|byte(OpText) {
		t.Errorf("frame header byte0 = %x, want FIN+Text", buf[0])
	}
	// Mask bit must be set on client frames.
	if buf[1]&0x80 == 0 {
		t.Error("client frame must have the mask bit set")
	}

	// A server-composed equivalent (no mask) should parse to the same payload.
	var serverBuf [256]byte
	serverBuf[0] = 0x80 | byte(OpText)
	serverBuf[1] = byte(len(payload))
	copy(serverBuf[2:], payload)

	frame, read, err := ParseFrame(serverBuf[:2+len(payload)])
	if err != nil {
		t.Fatalf("ParseFrame() error = %v", err)
	}
	if read != 2+len(payload) {
		t.Errorf("ParseFrame() consumed %d bytes, want %d", read, 2+len(payload))
	}
	if !bytes.Equal(frame.Payload, payload) {
		t.Errorf("ParseFrame() payload = %q, want %q", frame.Payload, payload)
	}
	if frame.Op != OpText || !frame.Fin {
		t.Errorf("ParseFrame() op=%v fin=%v, want Text/true", frame.Op, frame.Fin)
	}
}

func TestParseFrameRejectsMaskedServerFrame(t *testing.T) {
	var buf [10]byte
	buf[0] = 0x80 | byte(OpText)
	buf[1] = 0x80 | 4 // masked, 4-byte payload
	copy(buf[2:6], []byte{0, 0, 0, 0})

	if _, _, err := ParseFrame(buf[:]); err != ErrMaskedServerFrame {
		t.Errorf("ParseFrame() error = %v, want ErrMaskedServerFrame", err)
	}
}

func TestParseFrameIncomplete(t *testing.T) {
	buf := []byte{0x81} // only one byte
	if _, _, err := ParseFrame(buf); err != ErrShortFrame {
		t.Errorf("ParseFrame() error = %v, want ErrShortFrame", err)
	}
}

func TestWriteFrameBufferTooSmall(t *testing.T) {
	payload := make([]byte, 100)
	var tiny [10]byte
	if _, err := WriteFrame(tiny[:], OpText, payload); err != ErrBufferTooSmall {
		t.Errorf("WriteFrame() error = %v, want ErrBufferTooSmall", err)
	}
}

func TestValidateHandshakeAccept(t *testing.T) {
	key := "dGhlIHNhbXBsZSBub25jZQ=="
	want := acceptValue(key)

	resp := []byte("HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: " + want + "\r\n\r\n")

	if err := ValidateHandshakeAccept(resp, key); err != nil {
		t.Errorf("ValidateHandshakeAccept() error = %v", err)
	}
}

func TestValidateHandshakeAcceptRejectsWrongStatus(t *testing.T) {
	resp := []byte("HTTP/1.1 400 Bad Request\r\n\r\n")
	if err := ValidateHandshakeAccept(resp, "anykey"); err == nil {
		t.Error("expected error for non-101 response")
	}
}

func TestClientHandshakeRequestContainsKey(t *testing.T) {
	var buf [1024]byte
	n, key := ClientHandshakeRequest(buf[:], "localhost:9944", "", "http://localhost:9944")
	req := string(buf[:n])

	if key == "" {
		t.Fatal("ClientHandshakeRequest() returned empty key")
	}
	if !bytes.Contains(buf[:n], []byte("Sec-WebSocket-Key: "+key)) {
		t.Errorf("request missing Sec-WebSocket-Key header: %s", req)
	}
	if !bytes.Contains(buf[:n], []byte("GET / HTTP/1.1")) {
		t.Errorf("request missing request line for empty path: %s", req)
	}
}
