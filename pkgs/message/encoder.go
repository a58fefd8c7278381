package message

import "strings"

// TransferEncoder classifies a message's Content-Transfer-Encoding header.
type TransferEncoder string

const (
	EncoderSevenBit        TransferEncoder = "7bit"
	EncoderEightBit        TransferEncoder = "8bit"
	EncoderBinary          TransferEncoder = "binary"
	EncoderBase64          TransferEncoder = "base64"
	EncoderQuotedPrintable TransferEncoder = "quoted-printable"
	EncoderUnknown         TransferEncoder = "unknown"
)

// TransferEncoderForName maps a raw header value to a TransferEncoder.
// Absent or unrecognized values map to EncoderUnknown.
func TransferEncoderForName(name string) TransferEncoder {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "7bit":
		return EncoderSevenBit
	case "8bit":
		return EncoderEightBit
	case "binary":
		return EncoderBinary
	case "base64":
		return EncoderBase64
	case "quoted-printable":
		return EncoderQuotedPrintable
	default:
		return EncoderUnknown
	}
}
