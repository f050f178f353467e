// Package browser drives a headless browser against published pages.
//
// Page and Launcher abstract the browser so the liveness poll (VerifyLive)
// and the translated-page extraction (ExtractTranslated) can run against a
// scripted fake in tests. Chrome implements Launcher with chromedp.
package browser
