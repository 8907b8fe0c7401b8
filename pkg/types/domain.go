package types

// ModelFiles locates the two assets of the Caffe detector on disk.
type ModelFiles struct {
	// Network topology description.
	// example: /opt/camwatch/MobileNetSSD_deploy.prototxt
	Prototxt string `json:"prototxt" example:"/opt/camwatch/MobileNetSSD_deploy.prototxt"`
	// Learned weights.
	// example: /opt/camwatch/MobileNetSSD_deploy.caffemodel
	Weights string `json:"weights" example:"/opt/camwatch/MobileNetSSD_deploy.caffemodel"`
}

// Box is a rectangle in frame pixel coordinates.
type Box struct {
	X1 int `json:"x1" example:"120"`
	Y1 int `json:"y1" example:"40"`
	X2 int `json:"x2" example:"380"`
	Y2 int `json:"y2" example:"470"`
}

// DetectionView is one detection as reported to clients.
type DetectionView struct {
	// example: person
	Label string `json:"label" example:"person"`
	// example: 0.91
	Confidence float32 `json:"confidence" example:"0.91"`
	Box        Box     `json:"box"`
}
