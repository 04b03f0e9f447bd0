package clerk

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Tolérance sur l'horodatage pour limiter le rejeu
const signatureTolerance = 5 * time.Minute

// VerifyWebhookSignature vérifie une signature au format svix: HMAC-SHA256
// sur "id.timestamp.body", clé = secret base64 après le préfixe whsec_.
// L'en-tête de signature peut porter plusieurs candidats "v1,<base64>"
// séparés par des espaces.
func VerifyWebhookSignature(payload []byte, msgID, timestamp, signatures, secret string) error {
	if msgID == "" || timestamp == "" || signatures == "" {
		return errors.New("missing webhook signature headers")
	}
	if secret == "" {
		return errors.New("webhook secret not configured")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid webhook timestamp: %w", err)
	}
	age := time.Since(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return errors.New("webhook timestamp outside of tolerance")
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return fmt.Errorf("invalid webhook secret: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, candidate := range strings.Fields(signatures) {
		parts := strings.SplitN(candidate, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		sig, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			continue
		}
		if hmac.Equal(sig, expected) {
			return nil
		}
	}

	return errors.New("no matching webhook signature")
}
