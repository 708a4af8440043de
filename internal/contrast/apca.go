package contrast

import (
	"errors"
	"fmt"
	"math"

	"github.com/jsvensson/tonekit/internal/color"
)

// APCA-W3 0.0.98G constants.
const (
	mainTRC = 2.4

	sRco = 0.2126729
	sGco = 0.7151522
	sBco = 0.0721750

	normBG  = 0.56
	normTXT = 0.57
	revTXT  = 0.62
	revBG   = 0.65

	blkThrs = 0.022
	blkClmp = 1.414

	scaleBoW = 1.14
	scaleWoB = 1.14

	loBoWoffset = 0.027
	loWoBoffset = 0.027

	deltaYmin = 0.0005
	loClip    = 0.1

	loConThresh = 0.035991
	loConFactor = 27.7847239587675
	loConOffset = 0.027
)

// ErrUnknownUseCase is returned by ParseUseCase for unrecognized names.
var ErrUnknownUseCase = errors.New("unknown use case")

// UseCase selects the APCA thresholds a text role must meet.
type UseCase string

const (
	UseBody        UseCase = "body"
	UseLarge       UseCase = "large"
	UseHeadline    UseCase = "headline"
	UsePlaceholder UseCase = "placeholder"
)

// UseCases lists every use case in decreasing strictness.
var UseCases = []UseCase{UseBody, UseLarge, UseHeadline, UsePlaceholder}

// APCARating classifies an Lc value for a use case.
type APCARating string

const (
	APCAPass     APCARating = "Pass"
	APCAMarginal APCARating = "Marginal"
	APCAFail     APCARating = "Fail"
)

type apcaThreshold struct {
	pass, marginal float64
}

var apcaThresholds = map[UseCase]apcaThreshold{
	UseBody:        {pass: 75, marginal: 60},
	UseLarge:       {pass: 60, marginal: 45},
	UseHeadline:    {pass: 45, marginal: 30},
	UsePlaceholder: {pass: 30, marginal: 15},
}

// ParseUseCase maps a name to a UseCase. The empty string means body text.
func ParseUseCase(s string) (UseCase, error) {
	if s == "" {
		return UseBody, nil
	}
	u := UseCase(s)
	if _, ok := apcaThresholds[u]; !ok {
		return "", fmt.Errorf("%w %q (valid: body, large, headline, placeholder)", ErrUnknownUseCase, s)
	}
	return u, nil
}

// apcaLuminance is the APCA screen luminance estimate, using a simple 2.4
// power curve rather than the piecewise sRGB curve.
func apcaLuminance(c color.Color) float64 {
	c = c.Clamped()
	return sRco*math.Pow(float64(c.R)/255.0, mainTRC) +
		sGco*math.Pow(float64(c.G)/255.0, mainTRC) +
		sBco*math.Pow(float64(c.B)/255.0, mainTRC)
}

// softClampBlack boosts luminance near black to model flare.
func softClampBlack(y float64) float64 {
	if y > blkThrs {
		return y
	}
	return y + math.Pow(blkThrs-y, blkClmp)
}

// APCA returns the lightness contrast (Lc) of text on background, roughly in
// [-108, 106]. Positive values are dark text on a light background; negative
// values are light text on a dark background. This follows the APCA-W3
// reference sign convention, the opposite of "positive means light on dark";
// RateAPCA and BestTextColor use |Lc|, so only polarity depends on the sign.
func APCA(text, background color.Color) float64 {
	txtY := softClampBlack(apcaLuminance(text))
	bgY := softClampBlack(apcaLuminance(background))

	if math.Abs(bgY-txtY) < deltaYmin {
		return 0
	}

	var out float64
	if bgY > txtY {
		sapc := (math.Pow(bgY, normBG) - math.Pow(txtY, normTXT)) * scaleBoW
		switch {
		case sapc < loClip:
			out = 0
		case sapc < loConThresh:
			out = sapc - sapc*loConFactor*loConOffset
		default:
			out = sapc - loBoWoffset
		}
	} else {
		sapc := (math.Pow(bgY, revBG) - math.Pow(txtY, revTXT)) * scaleWoB
		switch {
		case sapc > -loClip:
			out = 0
		case sapc > -loConThresh:
			out = sapc - sapc*loConFactor*loConOffset
		default:
			out = sapc + loWoBoffset
		}
	}
	return out * 100
}

// APCAHex is APCA for hex strings.
func APCAHex(text, background string) (float64, error) {
	t, err := color.ParseHex(text)
	if err != nil {
		return 0, err
	}
	b, err := color.ParseHex(background)
	if err != nil {
		return 0, err
	}
	return APCA(t, b), nil
}

// RateAPCA classifies |lc| against the thresholds for use. Unknown use cases
// are rated as body text.
func RateAPCA(lc float64, use UseCase) APCARating {
	th, ok := apcaThresholds[use]
	if !ok {
		th = apcaThresholds[UseBody]
	}
	abs := math.Abs(lc)
	switch {
	case abs >= th.pass:
		return APCAPass
	case abs >= th.marginal:
		return APCAMarginal
	default:
		return APCAFail
	}
}
