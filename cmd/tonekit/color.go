package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/jsvensson/tonekit/internal/color"
	"github.com/jsvensson/tonekit/internal/contrast"
	"github.com/jsvensson/tonekit/internal/ramp"
	"github.com/spf13/cobra"
)

var rampFlags struct {
	steps       int
	preset      string
	chromaScale float64
	hueBias     float64
	dark        bool
	locked      map[string]string
}

var (
	flagSteps int
	flagKind  string
	flagUse   string
)

var rampCmd = &cobra.Command{
	Use:   "ramp [base]",
	Short: "Generate a tonal ramp from a base color or preset",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRamp,
}

var alphaCmd = &cobra.Command{
	Use:   "alpha <base>",
	Short: "Generate an alpha ramp of a base color",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlpha,
}

var harmonyCmd = &cobra.Command{
	Use:   "harmony <base>",
	Short: "Generate hue harmonies of a base color",
	Args:  cobra.ExactArgs(1),
	RunE:  runHarmony,
}

var semanticCmd = &cobra.Command{
	Use:   "semantic <base>",
	Short: "Derive success, warning, danger and info colors from a base color",
	Args:  cobra.ExactArgs(1),
	RunE:  runSemantic,
}

var contrastCmd = &cobra.Command{
	Use:   "contrast <text> <background>",
	Short: "Measure WCAG and APCA contrast of a text/background pair",
	Args:  cobra.ExactArgs(2),
	RunE:  runContrast,
}

var convertCmd = &cobra.Command{
	Use:   "convert <hex> | <l> <c> <h>",
	Short: "Convert between hex and OKLCH",
	Long: "Convert a hex color to RGB and OKLCH, or an OKLCH triple (lightness 0-1, " +
		"chroma, hue in degrees) to the nearest in-gamut hex color.",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("accepts 1 hex color or 3 OKLCH components, received %d", len(args))
		}
		return nil
	},
	RunE: runConvert,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List ramp presets",
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

func addColorCommands(root *cobra.Command) {
	rampCmd.Flags().IntVar(&rampFlags.steps, "steps", ramp.DefaultSteps, "number of steps (8, 10 or 12)")
	rampCmd.Flags().StringVar(&rampFlags.preset, "preset", "", "start from a named preset")
	rampCmd.Flags().Float64Var(&rampFlags.chromaScale, "chroma-scale", 1, "chroma multiplier")
	rampCmd.Flags().Float64Var(&rampFlags.hueBias, "hue-bias", 0, "hue rotation from -1 to 1")
	rampCmd.Flags().BoolVar(&rampFlags.dark, "dark", false, "use the dark-mode tables")
	rampCmd.Flags().StringToStringVar(&rampFlags.locked, "lock", nil, "lock a step to a color, e.g. --lock 6=#2563eb")

	alphaCmd.Flags().IntVar(&flagSteps, "steps", ramp.DefaultSteps, "number of steps (8, 10 or 12)")
	harmonyCmd.Flags().StringVar(&flagKind, "kind", string(ramp.Complementary), "harmony kind")
	contrastCmd.Flags().StringVar(&flagUse, "use", string(contrast.UseBody), "APCA use case (body, large, headline, placeholder)")

	root.AddCommand(rampCmd, alphaCmd, harmonyCmd, semanticCmd, contrastCmd, convertCmd, presetsCmd)
}

type rampOutput struct {
	Base   string   `yaml:"base"`
	Mode   string   `yaml:"mode"`
	Colors []string `yaml:"colors"`
}

func runRamp(cmd *cobra.Command, args []string) error {
	var opts ramp.Options
	if rampFlags.preset != "" {
		var err error
		if opts, err = ramp.PresetOptions(rampFlags.preset); err != nil {
			return err
		}
	}
	if len(args) == 1 {
		opts.BaseColor = args[0]
	}
	if opts.BaseColor == "" {
		return errors.New("ramp needs a base color or --preset")
	}

	opts.Steps = rampFlags.steps
	if rampFlags.chromaScale <= 0 || math.IsNaN(rampFlags.chromaScale) {
		return fmt.Errorf("chroma scale must be positive, got %g", rampFlags.chromaScale)
	}
	if cmd.Flags().Changed("chroma-scale") || rampFlags.preset == "" {
		opts.ChromaScale = rampFlags.chromaScale
	}
	opts.HueBias = rampFlags.hueBias
	opts.DarkMode = rampFlags.dark

	if len(rampFlags.locked) > 0 {
		opts.LockedSteps = make(map[int]string, len(rampFlags.locked))
		for k, v := range rampFlags.locked {
			n, err := strconv.Atoi(k)
			if err != nil {
				return fmt.Errorf("locked step %q: not a number", k)
			}
			opts.LockedSteps[n] = v
		}
	}

	colors, err := ramp.Generate(opts)
	if err != nil {
		return err
	}
	log.Debugf("generated %d steps from %s", len(colors), opts.BaseColor)

	out := rampOutput{Base: opts.BaseColor, Mode: "light", Colors: colors}
	if opts.DarkMode {
		out.Mode = "dark"
	}

	p := newPrinter(cmd)
	if flagYAML {
		return p.yaml(out)
	}
	for i, c := range colors {
		p.printf("%2d  %s\n", i+1, p.swatch(c))
	}
	return nil
}

func runAlpha(cmd *cobra.Command, args []string) error {
	colors, err := ramp.GenerateAlpha(args[0], flagSteps)
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	if flagYAML {
		return p.yaml(rampOutput{Base: args[0], Mode: "alpha", Colors: colors})
	}
	for i, c := range colors {
		p.printf("%2d  %s\n", i+1, c)
	}
	return nil
}

type harmonyOutput struct {
	Base   string   `yaml:"base"`
	Kind   string   `yaml:"kind"`
	Colors []string `yaml:"colors"`
}

func runHarmony(cmd *cobra.Command, args []string) error {
	kind, err := ramp.ParseHarmonyKind(flagKind)
	if err != nil {
		return err
	}
	colors, err := ramp.Harmony(args[0], kind)
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	if flagYAML {
		return p.yaml(harmonyOutput{Base: args[0], Kind: string(kind), Colors: colors})
	}
	for _, c := range colors {
		p.printf("%s\n", p.swatch(c))
	}
	return nil
}

func runSemantic(cmd *cobra.Command, args []string) error {
	roles, err := ramp.Semantic(args[0])
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	if flagYAML {
		out := make(map[string]string, len(roles))
		for role, hex := range roles {
			out[string(role)] = hex
		}
		return p.yaml(out)
	}
	for _, role := range ramp.Roles {
		p.printf("%-8s %s\n", role, p.swatch(roles[role]))
	}
	return nil
}

type contrastOutput struct {
	Text       string           `yaml:"text"`
	Background string           `yaml:"background"`
	Use        contrast.UseCase `yaml:"use"`
	Result     contrast.Result  `yaml:"result"`
}

func runContrast(cmd *cobra.Command, args []string) error {
	use, err := contrast.ParseUseCase(flagUse)
	if err != nil {
		return err
	}
	result, err := contrast.EvaluateHex(args[0], args[1], use)
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	if flagYAML {
		return p.yaml(contrastOutput{Text: args[0], Background: args[1], Use: use, Result: result})
	}
	p.printf("%s on %s\n", p.swatch(args[0]), p.swatch(args[1]))
	p.printf("WCAG  %6.2f:1  %s\n", result.WCAG.Ratio, result.WCAG.Rating)
	p.printf("APCA  Lc %5.1f  %s (%s)\n", result.APCA.Lc, result.APCA.Rating, use)
	return nil
}

type convertOutput struct {
	Hex     string  `yaml:"hex"`
	RGB     string  `yaml:"rgb"`
	OKLCH   string  `yaml:"oklch"`
	L       float64 `yaml:"l"`
	C       float64 `yaml:"c"`
	H       float64 `yaml:"h"`
	Clamped bool    `yaml:"clamped,omitempty"`
}

func runConvert(cmd *cobra.Command, args []string) error {
	var out convertOutput

	if len(args) == 1 {
		c, err := color.ParseHex(args[0])
		if err != nil {
			return err
		}
		lch := c.OKLCH()
		out = convertOutput{Hex: c.Hex(), RGB: c.RGB(), OKLCH: lch.CSS(), L: lch.L, C: lch.C, H: lch.H}
	} else {
		var vals [3]float64
		for i, arg := range args {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("oklch component %q: %w", arg, err)
			}
			if math.IsInf(v, 0) || math.IsNaN(v) {
				return fmt.Errorf("oklch component %q: must be a finite number", arg)
			}
			vals[i] = v
		}
		requested := color.OKLCH{L: vals[0], C: vals[1], H: color.NormalizeHue(vals[2])}
		mapped := color.ClampToGamut(requested)
		c := mapped.Color()
		out = convertOutput{
			Hex:     c.Hex(),
			RGB:     c.RGB(),
			OKLCH:   mapped.CSS(),
			L:       mapped.L,
			C:       mapped.C,
			H:       mapped.H,
			Clamped: mapped != requested,
		}
	}

	p := newPrinter(cmd)
	if flagYAML {
		return p.yaml(out)
	}
	p.printf("hex    %s\n", p.swatch(out.Hex))
	p.printf("rgb    %s\n", out.RGB)
	p.printf("oklch  %s\n", out.OKLCH)
	if out.Clamped {
		p.printf("(chroma reduced to fit sRGB)\n")
	}
	return nil
}

type presetOutput struct {
	Name        string  `yaml:"name"`
	Base        string  `yaml:"base"`
	ChromaScale float64 `yaml:"chroma_scale"`
}

func runPresets(cmd *cobra.Command, args []string) error {
	names := ramp.PresetNames()
	out := make([]presetOutput, 0, len(names))
	for _, name := range names {
		preset, _ := ramp.LookupPreset(name)
		out = append(out, presetOutput{Name: name, Base: preset.Base, ChromaScale: preset.ChromaScale})
	}

	p := newPrinter(cmd)
	if flagYAML {
		return p.yaml(out)
	}
	for _, preset := range out {
		p.printf("%-8s %s  chroma %.1f\n", preset.Name, p.swatch(preset.Base), preset.ChromaScale)
	}
	return nil
}
