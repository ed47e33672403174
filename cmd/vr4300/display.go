package main

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/sirupsen/logrus"

	"github.com/flga/vr4300/internal/rcp"
)

const (
	displayWidth  = 320
	displayHeight = 240
)

// display owns the glfw window and the GL-backed framebuffer sink that
// VI_ORIGIN_REG writes land in.
type display struct {
	win  *glfw.Window
	sink *rcp.GLSink
}

func newDisplay(log *logrus.Entry) (*display, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(displayWidth, displayHeight, "vr4300", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("initializing gl: %w", err)
	}

	return &display{
		win:  win,
		sink: rcp.NewGLSink(displayWidth, displayHeight, log),
	}, nil
}

// pump processes window events and swaps buffers. Call it periodically
// from the run loop if interactive display responsiveness matters; the
// debugging harness itself only calls it once at shutdown.
func (d *display) pump() {
	glfw.PollEvents()
	d.win.SwapBuffers()
}

func (d *display) close() {
	d.pump()
	d.win.Destroy()
	glfw.Terminate()
}
