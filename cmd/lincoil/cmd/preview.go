package cmd

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/spf13/cobra"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/lincoil/internal/design"
	"github.com/OpenTraceLab/lincoil/pkg/coil"
	"github.com/OpenTraceLab/lincoil/pkg/kicad/renderer"
)

func newPreviewCmd(root *rootOptions) *cobra.Command {
	var phases []string

	cmd := &cobra.Command{
		Use:   "preview [board_file]",
		Short: "Show the winding in an interactive viewer",
		Long: `Generates the winding in memory and opens a Gio window. With a board file the
winding is drawn over the board and connected to its pads; without one the
coils are drawn on their own, without connectors.

Controls:
  Layer buttons     - Show/hide a copper layer
  Left Click / R    - Rotate 90°
  Right Click / F   - Flip board
  Scroll Wheel      - Zoom in/out
  Space             - Fit to window
  Q / Escape        - Quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			scene, err := previewScene(cmd.Context(), root, root.logger(cmd), phases, path)
			if err != nil {
				return err
			}

			title := "lincoil preview"
			if path != "" {
				title += " - " + path
			}
			go func() {
				w := new(app.Window)
				w.Option(app.Title(title))
				w.Option(app.Size(unit.Dp(1000), unit.Dp(800)))

				if err := runPreviewWindow(w, scene); err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
				os.Exit(0)
			}()
			app.Main()
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&phases, "phase", nil, "phase declaration, replaces the configured phases (repeatable)")
	return cmd
}

// offlineNets numbers phase nets when there is no board to look them up in.
type offlineNets map[string]coil.NetID

func (n offlineNets) ResolveNet(name string) (coil.NetID, error) {
	if id, ok := n[name]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: %s", coil.ErrNetNotFound, name)
}

// previewScene generates the winding into memory and collects what the
// viewer draws. The board, if any, is never modified.
func previewScene(ctx context.Context, root *rootOptions, log *slog.Logger, phases []string, path string) (*renderer.Scene, error) {
	cfg, geo, err := root.load(phases)
	if err != nil {
		return nil, err
	}

	rec := &coil.Recorder{}
	scene := &renderer.Scene{}
	var d coil.Design

	if path != "" {
		board, err := design.Open(path)
		if err != nil {
			return nil, err
		}
		scene = renderer.BoardScene(board.Document().Board())
		d = coil.Design{Pads: board, Nets: board, Sink: rec, Layers: board}
	} else {
		nets := offlineNets{}
		for i := range cfg.Phases {
			nets[cfg.Phases[i].Net] = coil.NetID(i + 1)
			cfg.Phases[i].SkipConnectors = true
		}
		d = coil.Design{Nets: nets, Sink: rec}
	}

	orch := coil.NewOrchestrator(geo, d, coil.Options{Logger: log})
	if _, err := orch.Run(ctx, cfg.Phases); err != nil {
		return nil, err
	}
	scene.AddEmissions(rec.Events)
	return scene, nil
}

func runPreviewWindow(w *app.Window, scene *renderer.Scene) error {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))

	iconShown, err := widget.NewIcon(icons.ActionVisibility)
	if err != nil {
		return err
	}
	iconHidden, err := widget.NewIcon(icons.ActionVisibilityOff)
	if err != nil {
		return err
	}
	iconFit, err := widget.NewIcon(icons.NavigationFullscreen)
	if err != nil {
		return err
	}

	layers := scene.CopperLayers()
	toggles := make([]widget.Clickable, len(layers))
	var fit widget.Clickable

	config := renderer.NewLayerConfig()
	palette := renderer.NewPalette(renderer.ThemeClassic)
	camera := renderer.NewCamera(1000, 800)
	bbox := scene.Bounds()
	fitted := false

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			for {
				ev, ok := gtx.Event(
					key.Filter{Name: key.NameEscape}, key.Filter{Name: "Q"},
					key.Filter{Name: "F"}, key.Filter{Name: "R"},
					key.Filter{Name: key.NameSpace},
				)
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					switch ke.Name {
					case key.NameEscape, "Q":
						return nil
					case "F":
						camera.Flip()
					case "R":
						camera.Rotate(90)
					case key.NameSpace:
						camera.Fit(bbox)
					}
				}
			}

			for i := range toggles {
				for toggles[i].Clicked(gtx) {
					config.Toggle(layers[i])
				}
			}
			if fit.Clicked(gtx) {
				camera.Fit(bbox)
			}

			toolbar := []layout.FlexChild{
				layout.Rigid(material.IconButton(th, &fit, iconFit, "Fit to window").Layout),
			}
			for i, l := range layers {
				icon := iconShown
				if !config.IsVisible(l) {
					icon = iconHidden
				}
				btn := material.IconButton(th, &toggles[i], icon, "Toggle "+l)
				btn.Background = palette.Layer(l)
				btn.Size = unit.Dp(18)
				label := material.Body2(th, l)
				toolbar = append(toolbar,
					layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
					layout.Rigid(btn.Layout),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return layout.Inset{Left: unit.Dp(4)}.Layout(gtx, label.Layout)
					}),
				)
			}

			layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(unit.Dp(4)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return layout.Flex{Alignment: layout.Middle}.Layout(gtx, toolbar...)
					})
				}),
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					size := gtx.Constraints.Max
					camera.UpdateScreenSize(size.X, size.Y)
					if !fitted {
						camera.Fit(bbox)
						fitted = true
					}

					defer clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops).Pop()
					event.Op(gtx.Ops, camera)
					handlePointer(gtx, camera)

					renderer.Render(gtx, camera, scene, config, palette)
					return layout.Dimensions{Size: size}
				}),
			)

			e.Frame(gtx.Ops)
		}
	}
}

func handlePointer(gtx layout.Context, camera *renderer.Camera) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  camera,
			Kinds:   pointer.Press | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -1000, Max: 1000},
		})
		if !ok {
			return
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons == pointer.ButtonPrimary {
				camera.Rotate(90)
			} else if pe.Buttons == pointer.ButtonSecondary {
				camera.Flip()
			}
		case pointer.Scroll:
			factor := 1.0 - float64(pe.Scroll.Y)*0.01
			if factor < 0.1 {
				factor = 0.1
			}
			camera.ZoomAt(float64(pe.Position.X), float64(pe.Position.Y), factor)
		}
	}
}
