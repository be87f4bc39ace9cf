package viewer

import "fmt"

// probeScript returns the JS evaluated on every probe. It collects all
// canvas and img elements under the viewer root, skipping tiny UI icons,
// and snapshots canvases as PNG data URLs. Elements outside the root
// (chrome, navigation) are never inspected.
func probeScript(rootSelector string, minElementPx int) string {
	return fmt.Sprintf(`(() => {
	const root = document.querySelector(%q);
	if (!root) return [];

	const result = [];
	for (const el of root.querySelectorAll('canvas, img')) {
		const tag = el.tagName.toLowerCase();
		const rect = el.getBoundingClientRect();
		const width = el.width || el.naturalWidth || rect.width || 0;
		const height = el.height || el.naturalHeight || rect.height || 0;
		if (width < %d || height < %d) continue;

		if (tag === 'canvas') {
			try {
				const dataUrl = el.toDataURL('image/png');
				if (dataUrl && dataUrl.startsWith('data:image')) {
					result.push({src: dataUrl, width, height, kind: 'canvas'});
				}
			} catch (e) {
				// tainted canvas, skip
			}
		} else if (el.src) {
			result.push({src: el.src, width, height, kind: 'img'});
		}
	}
	return result;
})()`, rootSelector, minElementPx, minElementPx)
}
