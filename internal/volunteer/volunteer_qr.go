package volunteer

import (
	"encoding/base64"
	"encoding/json"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 300

// QRPayload is what a badge encodes. The scan endpoint only reads the id;
// name and timestamp are display metadata.
type QRPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
}

func buildQRPayload(v *Volunteer) (string, error) {
	payload := QRPayload{
		ID:        v.ID.String(),
		Name:      v.Name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// generateQRDataURL renders the payload as a PNG and returns it as a data URL
// the dashboard can drop straight into an <img> tag.
func generateQRDataURL(data string) (string, error) {
	png, err := qrcode.Encode(data, qrcode.High, qrImageSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
