// Package ocrbot provides a Telegram bot that extracts text from images,
// PDF and XML files and exports the extracted text as TXT, PDF or DOCX.
// Images go through a pluggable OCR backend: local Tesseract behind
// binarizing preprocessing, or the OCR.space API which receives the raw
// upload. PDF and XML files are read structurally, falling back to OCR
// on embedded images.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., gosseract/, etree/, sqlite/).
package ocrbot
