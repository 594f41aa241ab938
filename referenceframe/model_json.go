package referenceframe

import (
	"encoding/json"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/ikopt/autodiff"
	"go.viam.com/ikopt/spatialmath"
	"go.viam.com/ikopt/utils"
)

// ModelConfigJSON represents all supported fields in a kinematics JSON file.
type ModelConfigJSON struct {
	Name         string          `json:"name"`
	KinParamType string          `json:"kinematic_param_type,omitempty"`
	Links        []LinkConfig    `json:"links,omitempty"`
	Joints       []JointConfig   `json:"joints,omitempty"`
	DHParams     []DHParamConfig `json:"dhParams,omitempty"`
}

// LinkConfig is a fixed frame with a translation and orientation relative to its parent.
type LinkConfig struct {
	ID          string                         `json:"id"`
	Parent      string                         `json:"parent"`
	Translation spatialmath.TranslationConfig  `json:"translation"`
	Orientation *spatialmath.OrientationConfig `json:"orientation,omitempty"`
}

// JointConfig is a frame that moves relative to its parent along or about an axis.
type JointConfig struct {
	ID     string                 `json:"id"`
	Type   string                 `json:"type"`
	Parent string                 `json:"parent"`
	Axis   spatialmath.AxisConfig `json:"axis"`
	Max    float64                `json:"max"` // in mm or degs
	Min    float64                `json:"min"` // in mm or degs
}

// DHParamConfig is a revolute joint and the link that follows it, in Denavit-Hartenberg parameters. Alpha is in
// radians, Min and Max in degrees.
type DHParamConfig struct {
	ID     string  `json:"id"`
	Parent string  `json:"parent"`
	A      float64 `json:"a"`
	D      float64 `json:"d"`
	Alpha  float64 `json:"alpha"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*Model[autodiff.Real], error) {
	// empty data probably means that the robot component has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	m := &ModelConfigJSON{}
	if err := json.Unmarshal(jsonData, m); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}

	return m.ParseConfig(modelName)
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (*Model[autodiff.Real], error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// ParseConfig converts the ModelConfigJSON struct into a full Model with the name modelName.
func (cfg *ModelConfigJSON) ParseConfig(modelName string) (*Model[autodiff.Real], error) {
	if modelName == "" {
		modelName = cfg.Name
	}

	var frames []FrameConfig
	switch cfg.KinParamType {
	case "SVA", "":
		for _, link := range cfg.Links {
			fc, err := link.frameConfig()
			if err != nil {
				return nil, err
			}
			frames = append(frames, fc)
		}
		for _, joint := range cfg.Joints {
			fc, err := joint.frameConfig()
			if err != nil {
				return nil, err
			}
			frames = append(frames, fc)
		}
	case "DH":
		for _, dh := range cfg.DHParams {
			frames = append(frames, dh.frameConfigs()...)
		}
	default:
		return nil, errors.Errorf("unsupported param type: %s, supported params are SVA and DH", cfg.KinParamType)
	}

	if len(frames) == 0 {
		return nil, ErrNoModelInformation
	}
	return NewModel(modelName, frames)
}

func (l *LinkConfig) frameConfig() (FrameConfig, error) {
	orient, err := l.Orientation.ParseConfig()
	if err != nil {
		return FrameConfig{}, errors.Wrapf(err, "link %q", l.ID)
	}
	return FrameConfig{
		Name:   l.ID,
		Parent: l.Parent,
		Type:   FixedJoint,
		Offset: spatialmath.NewPose(l.Translation.ParseConfig(), orient),
	}, nil
}

func (j *JointConfig) frameConfig() (FrameConfig, error) {
	fc := FrameConfig{
		Name:   j.ID,
		Parent: j.Parent,
		Type:   JointType(j.Type),
		Axis:   j.Axis.ParseConfig(),
	}
	switch fc.Type {
	case RevoluteJoint:
		fc.Limit = Limit{Min: utils.DegToRad(j.Min), Max: utils.DegToRad(j.Max)}
	case PrismaticJoint:
		fc.Limit = Limit{Min: j.Min, Max: j.Max}
	default:
		return FrameConfig{}, NewUnsupportedJointTypeError(j.Type)
	}
	return fc, nil
}

// frameConfigs splits a DH parameter into a revolute joint about Z named ID_j followed by the link named ID.
func (dh *DHParamConfig) frameConfigs() []FrameConfig {
	jointID := dh.ID + "_j"
	return []FrameConfig{
		{
			Name:   jointID,
			Parent: dh.Parent,
			Type:   RevoluteJoint,
			Axis:   r3.Vector{Z: 1},
			Limit:  Limit{Min: utils.DegToRad(dh.Min), Max: utils.DegToRad(dh.Max)},
		},
		{
			Name:   dh.ID,
			Parent: jointID,
			Type:   FixedJoint,
			Offset: spatialmath.NewPose(r3.Vector{X: dh.A, Z: dh.D}, &spatialmath.R4AA{Theta: dh.Alpha, RX: 1}),
		},
	}
}
