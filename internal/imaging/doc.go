// Package imaging provides the image plumbing used by the SSO logo detector.
//
// It loads screenshots and logo templates, converts them to single-channel
// luminance (*image.Gray), rescales them, and draws detection overlays.
// Template matching runs on luminance only, so every image entering the
// matcher passes through ToGray first.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner:
//   - X increases rightward
//   - Y increases downward
//   - For regions, Min is inclusive and Max is exclusive
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The conversion helpers never modify
// their input and can be called concurrently. Images returned by the cache
// are shared and must be treated as read-only.
//
// # Error Handling
//
// Functions return wrapped errors for:
//   - File I/O errors during loading or saving
//   - Undecodable image data
//   - Unsupported output extensions when saving
package imaging
