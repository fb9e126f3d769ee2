// Package devstub is a stand-in for the generation service, used as the
// local development origin and as the test server for the api client.
package devstub

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"go-salmo/api"
	"go-salmo/debug"
	"go-salmo/instrument"
	"go-salmo/payload"
	"go-salmo/sequencer"
)

// Composer turns a request into a MIDI file
type Composer func(req api.GenerationRequest) ([]byte, error)

// C major pentatonic across two octaves
var scale = []uint8{60, 62, 64, 67, 69, 72, 74, 76, 79, 81}

// Melody is a deterministic placeholder: one eighth note per letter or
// digit, spaces lengthen the previous note, vowels are accented.
func Melody(req api.GenerationRequest) ([]byte, error) {
	var steps []sequencer.Step
	for _, r := range strings.ToLower(req.Text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			vel := uint8(70)
			if strings.ContainsRune("aeiouáéíóú", r) {
				vel = 100
			}
			steps = append(steps, sequencer.Step{
				Note:     scale[int(r)%len(scale)],
				Velocity: vel,
				Ticks:    uint32(sequencer.Resolution) / 2,
			})
		case unicode.IsSpace(r) && len(steps) > 0:
			steps[len(steps)-1].Ticks += uint32(sequencer.Resolution) / 2
		}
	}

	program, _ := instrument.ProgramFor(req.Instrument.Soundfont())
	return sequencer.Compose(96, uint8(program), steps...)
}

// NewRouter builds the stub API around composer (Melody if nil)
func NewRouter(composer Composer) *gin.Engine {
	if composer == nil {
		composer = Melody
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.POST(api.GeneratePath, func(c *gin.Context) {
		var req api.GenerationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		data, err := composer(req)
		if err != nil {
			debug.Error("devstub", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "composition failed"})
			return
		}

		debug.Log("devstub", "id=%s text=%q bytes=%d", c.GetHeader("X-Request-ID"), req.Text, len(data))
		c.JSON(http.StatusOK, api.GenerationResponse{MidiData: payload.Encode(data)})
	})

	return router
}
