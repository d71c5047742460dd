// Package patchkit builds stretchable "nine-patch" image assets for platform
// asset catalogs.
//
// The work is split across sub-packages, leaf first:
//
//   - ninepatch: pixel buffers, marker scanning and decoding of pre-authored
//     Android style nine-patch images.
//   - inset: the editable inset model and its clamping rules.
//   - compose: nine and three slice compositing onto any destination size.
//   - manifest: asset catalog resizing descriptors (Contents.json).
//   - export: 1x/2x/3x bundles with their manifest.
//   - session: a single goroutine owning one editing session, processing
//     requests in arrival order.
//   - debug: an annotated preview canvas with inset guides.
//   - widget: a Gio widget drawing a composed source.
//
// The ninepatch command in cmd/ninepatch drives all of the above.
//
// https://developer.android.com/guide/topics/graphics/drawables#nine-patch
package patchkit
