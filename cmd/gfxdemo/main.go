// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command gfxdemo renders a spinning triangle through the gfx device model.
//
// Usage:
//
//	gfxdemo -backend wgpu -frames 60 -output triangle.png
//	gfxdemo -window -config gfxdemo.toml
//
// With -config the options file is watched; edits are applied with
// ChangeOptions while the demo runs.
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/backend"
	_ "github.com/gogpu/gfx/backend/software"
	"github.com/gogpu/gfx/backend/wgpu"
	"github.com/gogpu/gfx/display/glfw"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
)

const triangleWGSL = `
struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec3<f32>,
}

@vertex
fn vs_main(@location(0) pos: vec2<f32>, @builtin(vertex_index) idx: u32) -> VertexOutput {
    var colors = array<vec3<f32>, 3>(
        vec3<f32>(1.0, 0.3, 0.3),
        vec3<f32>(0.3, 1.0, 0.3),
        vec3<f32>(0.3, 0.3, 1.0),
    );
    var out: VertexOutput;
    out.position = vec4<f32>(pos, 0.0, 1.0);
    out.color = colors[idx % 3u];
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(in.color, 1.0);
}
`

const vertexStride = 8

func main() {
	var (
		backendName = flag.String("backend", "", "backend name (empty: default)")
		width       = flag.Int("width", 800, "back-buffer width")
		height      = flag.Int("height", 600, "back-buffer height")
		frames      = flag.Int("frames", 60, "frames to render; 0 runs until the window closes")
		msaa        = flag.Int("msaa", 1, "MSAA sample count")
		config      = flag.String("config", "", "options file (.toml or .yaml), watched for changes")
		window      = flag.Bool("window", false, "open a window")
		output      = flag.String("output", "", "write the last frame to this PNG file (wgpu only)")
		verbose     = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *verbose {
		gfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts := gfx.Options{
		Backend:     *backendName,
		Title:       "gfxdemo",
		Width:       *width,
		Height:      *height,
		SampleCount: *msaa,
		VSync:       true,
	}

	var watcher *gfx.OptionsWatcher
	if *config != "" {
		loaded, err := gfx.LoadOptions(*config)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", *config, err)
		}
		opts = loaded
		if watcher, err = gfx.WatchOptions(*config); err != nil {
			log.Fatalf("Failed to watch %s: %v", *config, err)
		}
		defer watcher.Close()
	}

	var ropts []gfx.RendererOption
	var win *glfw.Window
	if *window {
		win = glfw.New()
		ropts = append(ropts, gfx.WithDisplay(win))
	}

	r := gfx.New(ropts...)
	if err := r.Init(opts); err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer r.Close()
	log.Printf("Device ready: %s (%s)", r.Adapter().Name(), r.Caps().AdapterName)

	demo, err := newScene(r)
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}

	for frame := 0; *frames == 0 || frame < *frames; frame++ {
		if win != nil && !win.PollEvents() {
			break
		}
		if watcher != nil {
			pollOptions(r, watcher)
		}
		if err := demo.draw(r, float32(frame)); err != nil {
			if errors.Is(err, gfx.ErrDeviceUnavailable) {
				if err := r.TryRestore(); err != nil {
					log.Printf("Device not restored: %v", err)
				}
				continue
			}
			log.Fatalf("Frame %d: %v", frame, err)
		}
	}

	if *output != "" {
		if err := savePNG(r, *output); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		log.Printf("Frame saved to %s", *output)
	}

	s := r.Stats()
	log.Printf("Frames %d, binds %d, skipped %d, state objects %d (%d hits, %d misses)",
		s.Frames, s.Bind.Binds, s.Bind.Skipped, s.StateObjects, s.StateHits, s.StateMisses)
}

type scene struct {
	program  *resource.Program
	vertices *resource.Buffer
	ctx      state.Context
}

func newScene(r *gfx.Renderer) (*scene, error) {
	layout := gputypes.VertexBufferLayout{
		ArrayStride: vertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{
				Format:         gputypes.VertexFormatFloat32x2,
				Offset:         0,
				ShaderLocation: 0,
			},
		},
	}
	prog, err := r.NewProgram(resource.ProgramDescriptor{
		Label:         "triangle",
		Source:        triangleWGSL,
		VertexLayouts: []gputypes.VertexBufferLayout{layout},
	})
	if err != nil {
		return nil, err
	}
	vb, err := r.NewBuffer(resource.BufferDescriptor{
		Label:   "triangle_vertices",
		Kind:    resource.BufferVertex,
		Size:    3 * vertexStride,
		Dynamic: true,
	}, nil)
	if err != nil {
		return nil, err
	}

	ctx := state.Default()
	ctx.Raster.Cull = gputypes.CullModeNone
	ctx.Program = prog
	ctx.Vertex.Streams[0] = state.VertexStream{Buffer: vb, Stride: vertexStride}
	ctx.Vertex.Count = 1
	return &scene{program: prog, vertices: vb, ctx: ctx}, nil
}

func (s *scene) draw(r *gfx.Renderer, t float32) error {
	if err := s.vertices.Write(0, triangle(t*0.05)); err != nil {
		return err
	}
	if err := r.BindContext(&s.ctx, false); err != nil {
		return err
	}
	values := backend.ClearValues{Color: [4]float32{0.1, 0.2, 0.4, 1}, Depth: 1}
	if err := r.Clear(backend.ClearAll, values); err != nil {
		return err
	}
	if err := r.Draw(3, 0); err != nil {
		return err
	}
	return r.Present()
}

// triangle returns three float32x2 vertices rotated by angle radians.
func triangle(angle float32) []byte {
	buf := make([]byte, 0, 3*vertexStride)
	for i := 0; i < 3; i++ {
		a := angle + float32(i)*2*math32.Pi/3
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(0.7*math32.Cos(a)))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(0.7*math32.Sin(a)))
	}
	return buf
}

func pollOptions(r *gfx.Renderer, w *gfx.OptionsWatcher) {
	select {
	case next := <-w.C:
		if err := r.ChangeOptions(next, false); err != nil {
			log.Printf("Options not applied: %v", err)
			return
		}
		log.Printf("Options applied: %dx%d fullscreen=%v", next.Width, next.Height, next.Fullscreen)
	case err := <-w.Errors:
		log.Printf("Options file: %v", err)
	default:
	}
}

func savePNG(r *gfx.Renderer, path string) error {
	a, ok := r.Adapter().(*wgpu.Adapter)
	if !ok {
		return errors.New("the current backend cannot read back frames")
	}
	img, err := a.ReadBack()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
