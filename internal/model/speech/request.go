package speech

// TTSRequest asks for text to be synthesized.
type TTSRequest struct {
	Text     string  `json:"text" validate:"required,max=1024"`
	Voice    string  `json:"voice,omitempty" validate:"omitempty,max=128"`
	Speed    float32 `json:"speed,omitempty" validate:"omitempty,gte=0.5,lte=2"`
	Volume   float32 `json:"volume,omitempty" validate:"omitempty,gte=0.1,lte=2"`
	Language string  `json:"language,omitempty" validate:"omitempty,max=16"`
}
