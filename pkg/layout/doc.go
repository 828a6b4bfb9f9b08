// Package layout provides Box, a small flexbox-style layout engine for the
// shadow tree.
//
// Box lays children out along their parent's main axis (column by
// default, row when flexDirection is "row"). Explicit width and height are
// honored; flexGrow shares the remaining main-axis space; the cross axis
// stretches to the parent's content box unless sized explicitly. Padding
// insets the content box and margin is applied on every side of a child.
//
// Frames are relative to the parent's frame. Box returns the nodes whose
// frame changed during the pass, which the dom Manager forwards to the
// render backend as an UpdateLayout operation.
package layout
