// Package npy writes and reads NumPy's .npy array format and .npz archives.
//
// Only C-ordered, little-endian numeric arrays are produced. The preamble
// follows format version 1.0, or 2.0 when the header dictionary does not fit
// a 16-bit length, and is padded so the data starts on a 64-byte boundary:
//
//	\x93NUMPY | major | minor | header_len | {'descr': '<i4', 'fortran_order': False, 'shape': (2, 3), }   \n | data
//
// Read parses both versions so converted files can be verified without Python.
package npy
