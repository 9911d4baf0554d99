package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEngineValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"mock", Config{Type: "mock", Speed: 1, Volume: 1}, false},
		{"zero speed", Config{Type: "mock", Speed: 0, Volume: 1}, true},
		{"too slow", Config{Type: "mock", Speed: 0.05, Volume: 1}, true},
		{"slowest", Config{Type: "mock", Speed: 0.1, Volume: 1}, false},
		{"fastest", Config{Type: "mock", Speed: 3, Volume: 1}, false},
		{"too fast", Config{Type: "mock", Speed: 3.5, Volume: 1}, true},
		{"too loud", Config{Type: "mock", Speed: 1, Volume: 2.5}, true},
		{"unknown type", Config{Type: "gramophone", Speed: 1, Volume: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewEngineSpeedMessage(t *testing.T) {
	_, err := NewEngine(Config{Type: "mock", Speed: 0.05, Volume: 1})
	assert.EqualError(t, err, "speed must be between 0.1 and 3.0, got 0.05")
}

func TestParseESpeakVoices(t *testing.T) {
	output := `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  en-gb           --/M      English_(Great_Britain) gmw/en            (en 2)

`
	assert.Equal(t, []string{"Afrikaans", "English_(Great_Britain)"}, parseESpeakVoices(output))
}

func TestParseSayVoices(t *testing.T) {
	output := `Alex                en_US    # Most people recognize me by my voice.
Bad News            en_US    # The light you see at the end of the tunnel is the headlamp of a fast approaching train.
Amélie              fr_CA    # Bonjour, je m’appelle Amélie.
garbage line
`
	assert.Equal(t, []string{"Alex", "Bad News", "Amélie"}, parseSayVoices(output))
}

func TestEngineArgs(t *testing.T) {
	c := Config{Voice: "en-gb", Speed: 1.2, Volume: 0.5}
	assert.Equal(t, []string{"-v", "en-gb", "-s", "210", "-a", "50", "--stdin"}, espeakArgs(c))
	assert.Equal(t, []string{"-v", "en-gb", "-r", "210", "-f", "-"}, sayArgs(c))

	c.Voice = "default"
	assert.Equal(t, []string{"-s", "210", "-a", "50", "--stdin"}, espeakArgs(c))
}

func TestSAPIScriptQuotesVoice(t *testing.T) {
	script := sapiScript(Config{Voice: "O'Brien", Speed: 1, Volume: 1})
	assert.Contains(t, script, "SelectVoice('O''Brien')")
	assert.Contains(t, script, "$synth.Rate = 0;")
	assert.Contains(t, script, "$synth.Volume = 100;")
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "en-GB", LanguageCode("en-GB-Standard-A"))
	assert.Equal(t, "cmn-CN", LanguageCode("cmn-CN-Wavenet-A"))
	assert.Equal(t, "en-US", LanguageCode("Algenib"))
}

func TestVolumeGainDb(t *testing.T) {
	assert.Equal(t, -96.0, volumeGainDb(0))
	assert.InDelta(t, 0, volumeGainDb(1), 1e-9)
	assert.InDelta(t, 6.02, volumeGainDb(2), 0.01)
}
