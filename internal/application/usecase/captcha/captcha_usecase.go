package captcha

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	captchadomain "github.com/khoahotran/volc-friends/internal/domain/captcha"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

const (
	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength = 4
	width      = 120
	height     = 40
	noiseLines = 3
	defaultTTL = 5 * time.Minute
)

type GenerateCaptchaUseCase struct {
	store  captchadomain.Store
	ttl    time.Duration
	logger logger.Logger
}

func NewGenerateCaptchaUseCase(store captchadomain.Store, ttl time.Duration, log logger.Logger) *GenerateCaptchaUseCase {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &GenerateCaptchaUseCase{store: store, ttl: ttl, logger: log}
}

type GenerateCaptchaOutput struct {
	ChallengeID string
	SVG         string
}

func (uc *GenerateCaptchaUseCase) Execute(ctx context.Context) (*GenerateCaptchaOutput, error) {
	code, err := randomCode(codeLength)
	if err != nil {
		return nil, apperror.NewInternal("failed to generate captcha code", err)
	}
	id := uuid.NewString()

	if err := uc.store.Save(ctx, id, code, uc.ttl); err != nil {
		uc.logger.Error("Failed to store captcha", err)
		return nil, apperror.NewInternal("failed to store captcha", err)
	}
	return &GenerateCaptchaOutput{ChallengeID: id, SVG: renderSVG(code)}, nil
}

func randomCode(n int) (string, error) {
	var b strings.Builder
	limit := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String(), nil
}

// renderSVG draws the code as jittered, rotated glyphs over a few noise lines.
func renderSVG(code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, width, height, width, height)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="#f2f2f2"/>`)

	for i := 0; i < noiseLines; i++ {
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`,
			mrand.IntN(width), mrand.IntN(height), mrand.IntN(width), mrand.IntN(height), randomColor())
	}

	step := width / (len(code) + 1)
	for i, ch := range code {
		x := step*(i+1) + mrand.IntN(7) - 3
		y := height/2 + 8 + mrand.IntN(7) - 3
		rotate := mrand.IntN(41) - 20
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="monospace" font-size="24" fill="%s" transform="rotate(%d %d %d)">%c</text>`,
			x, y, randomColor(), rotate, x, y, ch)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func randomColor() string {
	return fmt.Sprintf("#%02x%02x%02x", mrand.IntN(160), mrand.IntN(160), mrand.IntN(160))
}

type VerifyCaptchaUseCase struct {
	store  captchadomain.Store
	logger logger.Logger
}

func NewVerifyCaptchaUseCase(store captchadomain.Store, log logger.Logger) *VerifyCaptchaUseCase {
	return &VerifyCaptchaUseCase{store: store, logger: log}
}

type VerifyCaptchaInput struct {
	ChallengeID string
	Answer      string
}

// Execute redeems the challenge. It is consumed whether or not the answer
// matches, so each challenge gets exactly one guess.
func (uc *VerifyCaptchaUseCase) Execute(ctx context.Context, input VerifyCaptchaInput) (bool, error) {
	id := strings.TrimSpace(input.ChallengeID)
	answer := strings.TrimSpace(input.Answer)
	if id == "" || answer == "" {
		return false, nil
	}

	expected, err := uc.store.Take(ctx, id)
	if err != nil {
		if errors.Is(err, captchadomain.ErrChallengeNotFound) {
			return false, nil
		}
		uc.logger.Error("Failed to read captcha", err, zap.String("challenge_id", id))
		return false, apperror.NewInternal("failed to read captcha", err)
	}
	return strings.EqualFold(expected, answer), nil
}

// Verify satisfies service.CaptchaVerifier.
func (uc *VerifyCaptchaUseCase) Verify(ctx context.Context, challengeID, answer string) (bool, error) {
	return uc.Execute(ctx, VerifyCaptchaInput{ChallengeID: challengeID, Answer: answer})
}
