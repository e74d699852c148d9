package receipt

import (
	"strings"

	"github.com/oriharu-heaven/ExpenseTracker/internal/domain"
)

// buildPrompt assembles the instruction text sent with the receipt image.
// The category choices are generated from the domain enum so the prompt can
// never drift from the labels the pipeline accepts.
func buildPrompt() string {
	var labels []string
	for _, c := range domain.Categories() {
		labels = append(labels, `"`+c.Label()+`"`)
	}
	categoryChoices := strings.Join(labels, " | ")

	return "あなたは熟練の経理担当AIです。アップロードされたレシートやクレジットカード明細の画像を解析し、\n" +
		"以下のJSON形式でデータを出力してください。\n" +
		"Markdownのコードブロック(```jsonなど)は不要です。純粋なJSON配列のみを返してください。\n" +
		"\n" +
		"[\n" +
		"  {\n" +
		"    \"date\": \"YYYY-MM-DD\",\n" +
		"    \"title\": \"項目名(具体的かつ簡潔に)\",\n" +
		"    \"amount\": 数値(通貨記号なし),\n" +
		"    \"category\": " + categoryChoices + ",\n" +
		"    \"is_business\": true/false (経費だと思われる場合はtrue),\n" +
		"    \"location_from\": \"出発地(交通費の場合のみ)\",\n" +
		"    \"location_to\": \"到着地または店名\"\n" +
		"  }\n" +
		"]\n" +
		"\n" +
		"画像内に複数の明細がある場合は、すべて配列に含めてください。\n"
}
