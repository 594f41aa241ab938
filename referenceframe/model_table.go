package referenceframe

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"go.viam.com/ikopt/autodiff"
	"go.viam.com/ikopt/utils"
)

// String prints out a table of each frame in the model, parents first, with columns of name, parent, type, input
// index, offset and joint axis/limits. Revolute limits are shown in degrees.
func (m *Model[T]) String() string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s (%d DoF)", m.name, len(m.limits)))
	t.AppendHeader(table.Row{"#", "Name", "Parent", "Type", "Input", "Translation", "Orientation", "Axis", "Limits"})
	t.AppendRow(table.Row{"0", World, "", "", "", "", "", "", ""})
	for i, name := range m.order {
		f := m.frames[name]
		row := table.Row{fmt.Sprintf("%d", i+1), f.name, f.parent, string(f.kind), "", "", "", "", ""}
		switch f.kind {
		case RevoluteJoint:
			row[4] = fmt.Sprintf("%d", f.input)
			row[7] = formatAxis(f.axis)
			row[8] = fmt.Sprintf("[%.1f, %.1f]", utils.RadToDeg(f.limit.Min), utils.RadToDeg(f.limit.Max))
		case PrismaticJoint:
			row[4] = fmt.Sprintf("%d", f.input)
			row[7] = formatAxis(f.axis)
			row[8] = fmt.Sprintf("[%.3f, %.3f]", f.limit.Min, f.limit.Max)
		default:
			pose := f.offset.Pose()
			tra := pose.Point()
			ori := pose.Orientation().EulerAngles()
			row[5] = fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", tra.X, tra.Y, tra.Z)
			row[6] = fmt.Sprintf(
				"Roll:%.2f, Pitch:%.2f, Yaw:%.2f",
				utils.RadToDeg(ori.Roll),
				utils.RadToDeg(ori.Pitch),
				utils.RadToDeg(ori.Yaw),
			)
		}
		t.AppendRow(row)
	}
	return t.Render()
}

func formatAxis[T autodiff.Scalar[T]](axis [3]T) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", axis[0].Float(), axis[1].Float(), axis[2].Float())
}
