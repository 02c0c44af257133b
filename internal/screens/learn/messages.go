package learn

import "github.com/lumenlearn/lumen/internal/playback"

// wakeMsg delivers a scheduled timer wake back to the sequencer.
type wakeMsg playback.Wake
