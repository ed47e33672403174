// Package rcp provides the collaborator handle the cpu/membus pair drives
// on a VI register write — a stand-in for the reparable-display-interface
// half of the N64's RCP that this core treats as an injected dependency,
// the way the teacher core injects its PPU/APU collaborators into the CPU.
package rcp

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/sirupsen/logrus"
)

// MemorySink is an in-memory FramebufferSink for tests and headless runs —
// it just remembers the last format and origin it was given.
type MemorySink struct {
	RGBA   bool
	Origin []byte
}

func (s *MemorySink) SetFormat(rgba bool)          { s.RGBA = rgba }
func (s *MemorySink) SetOrigin(framebuffer []byte) { s.Origin = framebuffer }

// GLSink uploads the VI origin pointer's backing bytes as a texture through
// an already-current go-gl/glfw OpenGL context.
type GLSink struct {
	texture uint32
	width   int32
	height  int32
	rgba    bool
	log     *logrus.Entry
}

// NewGLSink allocates a texture name sized to the display resolution. Call
// it only once a glfw window has made its context current.
func NewGLSink(width, height int32, log *logrus.Entry) *GLSink {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	var tex uint32
	gl.GenTextures(1, &tex)
	return &GLSink{texture: tex, width: width, height: height, log: log}
}

// Texture is the GL texture name the last SetOrigin call uploaded into.
func (s *GLSink) Texture() uint32 { return s.texture }

func (s *GLSink) SetFormat(rgba bool) { s.rgba = rgba }

// SetOrigin uploads framebuffer as the current frame's pixel source, using
// whichever pixel format the last VI_CTRL_REG write selected.
func (s *GLSink) SetOrigin(framebuffer []byte) {
	internalFormat := int32(gl.RGB5)
	bytesPerPixel := 2
	if s.rgba {
		internalFormat = gl.RGBA
		bytesPerPixel = 4
	}
	need := int(s.width) * int(s.height) * bytesPerPixel
	if len(framebuffer) < need {
		s.log.WithFields(logrus.Fields{"have": len(framebuffer), "need": need}).
			Warn("framebuffer shorter than the configured display resolution, skipping upload")
		return
	}

	gl.BindTexture(gl.TEXTURE_2D, s.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, s.width, s.height, 0,
		uint32(internalFormat), gl.UNSIGNED_BYTE, gl.Ptr(framebuffer))
}
