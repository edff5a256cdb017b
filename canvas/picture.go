package canvas

import (
	"image"

	"github.com/benoitkugler/svgpaint/svgpath"
)

// Canvas receives the drawing operations. The current transform
// (CTM) and clip are saved and restored with Save/SaveLayer and Restore.
type Canvas interface {
	// Save pushes the current transform and clip.
	Save()
	// SaveLayer is like Save, but also redirects the next drawings
	// to an offscreen layer, composited with paint when restored.
	// A nil paint composites the layer as is.
	SaveLayer(paint *Paint)
	// Restore pops the last saved state, and composites the
	// layer if any.
	Restore()

	// SetMatrix replaces the current transform.
	SetMatrix(m svgpath.Matrix2D)
	// Concat pre-concatenates m to the current transform :
	// m is applied first.
	Concat(m svgpath.Matrix2D)
	// TotalMatrix returns the current transform.
	TotalMatrix() svgpath.Matrix2D

	// ClipRect intersects the current clip with r, in user space.
	ClipRect(r svgpath.Rect)
	// ClipPath intersects the current clip with p, in user space.
	ClipPath(p *Path, antialias bool)

	DrawPath(p *Path, paint *Paint)
	// DrawImage draws img scaled into dst.
	DrawImage(img image.Image, dst svgpath.Rect, paint *Paint)
	DrawPicture(pic *Picture)
}

// Op is a recorded drawing operation.
type Op interface {
	execute(c Canvas, base svgpath.Matrix2D)
}

type SaveOp struct{}

type SaveLayerOp struct{ Paint *Paint }

type RestoreOp struct{}

// SetMatrixOp is relative to the transform active
// when the picture is played back.
type SetMatrixOp struct{ Matrix svgpath.Matrix2D }

type ConcatOp struct{ Matrix svgpath.Matrix2D }

type ClipRectOp struct{ Rect svgpath.Rect }

type ClipPathOp struct {
	Path      *Path
	Antialias bool
}

type DrawPathOp struct {
	Path  *Path
	Paint *Paint
}

type DrawImageOp struct {
	Image image.Image
	Dst   svgpath.Rect
	Paint *Paint
}

type DrawPictureOp struct{ Picture *Picture }

func (SaveOp) execute(c Canvas, _ svgpath.Matrix2D)         { c.Save() }
func (op SaveLayerOp) execute(c Canvas, _ svgpath.Matrix2D) { c.SaveLayer(op.Paint) }
func (RestoreOp) execute(c Canvas, _ svgpath.Matrix2D)      { c.Restore() }
func (op SetMatrixOp) execute(c Canvas, base svgpath.Matrix2D) {
	c.SetMatrix(base.Mult(op.Matrix))
}
func (op ConcatOp) execute(c Canvas, _ svgpath.Matrix2D)   { c.Concat(op.Matrix) }
func (op ClipRectOp) execute(c Canvas, _ svgpath.Matrix2D) { c.ClipRect(op.Rect) }
func (op ClipPathOp) execute(c Canvas, _ svgpath.Matrix2D) { c.ClipPath(op.Path, op.Antialias) }
func (op DrawPathOp) execute(c Canvas, _ svgpath.Matrix2D) { c.DrawPath(op.Path, op.Paint) }
func (op DrawImageOp) execute(c Canvas, _ svgpath.Matrix2D) {
	c.DrawImage(op.Image, op.Dst, op.Paint)
}
func (op DrawPictureOp) execute(c Canvas, _ svgpath.Matrix2D) { c.DrawPicture(op.Picture) }

// Picture is an immutable list of drawing operations,
// which may be replayed onto any Canvas.
type Picture struct {
	resource

	// CullRect is the area given when recording.
	CullRect svgpath.Rect
	ops      []Op

	owned CompositeDisposable
}

// Attach transfers the ownership of d to the picture :
// it will be released with the picture.
func (p *Picture) Attach(d Disposable) { p.owned.Add(d) }

// Dispose releases the picture and the resources attached to it.
func (p *Picture) Dispose() {
	p.resource.Dispose()
	p.owned.Dispose()
}

// Ops returns the recorded operations.
func (p *Picture) Ops() []Op { return p.ops }

// Playback replays the recorded operations onto c, relatively to
// the current transform of c. The state of c is saved and restored.
func (p *Picture) Playback(c Canvas) {
	base := c.TotalMatrix()
	c.Save()
	for _, op := range p.ops {
		op.execute(c, base)
	}
	c.Restore()
}

// PictureRecorder records drawing operations into a Picture.
type PictureRecorder struct {
	ops       []Op
	recording bool
	cull      svgpath.Rect
}

// BeginRecording starts a new recording session, discarding
// any pending operation.
func (r *PictureRecorder) BeginRecording(cull svgpath.Rect) Canvas {
	r.ops = nil
	r.recording = true
	r.cull = cull
	return &recordingCanvas{recorder: r, matrix: svgpath.Identity}
}

// EndRecording finishes the recording and returns the picture.
func (r *PictureRecorder) EndRecording() *Picture {
	if !r.recording {
		return &Picture{CullRect: r.cull}
	}
	r.recording = false
	ops := r.ops
	r.ops = nil
	return &Picture{CullRect: r.cull, ops: ops}
}

func (r *PictureRecorder) append(op Op) {
	if !r.recording {
		return
	}
	r.ops = append(r.ops, op)
}

// recordingCanvas tracks the transform so that
// TotalMatrix is meaningful while recording.
type recordingCanvas struct {
	recorder *PictureRecorder
	matrix   svgpath.Matrix2D
	stack    []svgpath.Matrix2D
}

func (c *recordingCanvas) Save() {
	c.stack = append(c.stack, c.matrix)
	c.recorder.append(SaveOp{})
}

func (c *recordingCanvas) SaveLayer(paint *Paint) {
	c.stack = append(c.stack, c.matrix)
	c.recorder.append(SaveLayerOp{Paint: paint})
}

func (c *recordingCanvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.matrix = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.recorder.append(RestoreOp{})
}

func (c *recordingCanvas) SetMatrix(m svgpath.Matrix2D) {
	c.matrix = m
	c.recorder.append(SetMatrixOp{Matrix: m})
}

func (c *recordingCanvas) Concat(m svgpath.Matrix2D) {
	c.matrix = c.matrix.Mult(m)
	c.recorder.append(ConcatOp{Matrix: m})
}

func (c *recordingCanvas) TotalMatrix() svgpath.Matrix2D { return c.matrix }

func (c *recordingCanvas) ClipRect(r svgpath.Rect) { c.recorder.append(ClipRectOp{Rect: r}) }

func (c *recordingCanvas) ClipPath(p *Path, antialias bool) {
	c.recorder.append(ClipPathOp{Path: p, Antialias: antialias})
}

func (c *recordingCanvas) DrawPath(p *Path, paint *Paint) {
	c.recorder.append(DrawPathOp{Path: p, Paint: paint})
}

func (c *recordingCanvas) DrawImage(img image.Image, dst svgpath.Rect, paint *Paint) {
	c.recorder.append(DrawImageOp{Image: img, Dst: dst, Paint: paint})
}

func (c *recordingCanvas) DrawPicture(pic *Picture) {
	c.recorder.append(DrawPictureOp{Picture: pic})
}
