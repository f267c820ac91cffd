package imagecache

// runDecodeWorker decodes data with decoder and reports the resulting
// handle (or nil on failure) back to the actor's inbox. Decode failures are
// not fatal to the cache: they settle the URL as Failed (spec §4.3,
// StoreImage/none).
func runDecodeWorker(url string, data []byte, decoder Decoder, inbox chan<- message) {
	img, err := decoder(data)
	if err != nil {
		inbox <- storeImageMsg{url: url, image: nil}
		return
	}
	inbox <- storeImageMsg{url: url, image: NewImageHandle(img)}
}
