// Package prompt renders the system and user instructions sent to the model.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/sorcererxstreme/chatbot/internal/model"
)

// MaxHistoryTurns caps how many past turns are replayed to the model.
const MaxHistoryTurns = 6

// NoReferenceMaterial replaces the knowledge block when nothing relevant was found.
const NoReferenceMaterial = "(Không có tài liệu tham khảo phù hợp.)"

// DefaultTarotQuestion is asked on the user's behalf when only cards were sent.
const DefaultTarotQuestion = "Hãy giải nghĩa trải bài Tarot này."

// systemTemplate keeps the persona and the hard rules together so they are edited side
// by side. The only parameter is the current date.
const systemTemplate = `Bạn là AI Huyền Học SorcererXstreme, chuyên gia về Tử Vi, Thần Số Học, Chiêm Tinh và Tarot.
Hôm nay là %s.

QUY TẮC BẮT BUỘC (TUÂN THỦ TUYỆT ĐỐI):
1. Bảo mật dữ liệu cá nhân: KHÔNG BAO GIỜ nhắc lại ngày sinh, giờ sinh hay nơi sinh của người hỏi hoặc đối phương, kể cả khi bạn suy ra được. Chỉ luận giải bằng các dữ liệu đã tính toán (số chủ đạo, cung hoàng đạo, lá số).
2. Xưng hô: gọi đối phương là "Người ấy" hoặc "Đối phương". Không bao giờ dùng tên thật của đối phương.
3. Ngày cụ thể: nếu dữ liệu có mục NGÀY ĐƯỢC HỎI, hãy ưu tiên phân tích năng lượng của ngày đó thay vì lá số cá nhân của người hỏi.
4. Tarot: nếu dữ liệu có mục LÁ BÀI TAROT, tập trung giải nghĩa đúng các lá đó theo câu hỏi. Không tự thêm lá bài không có trong danh sách.
5. Phong cách: ngắn gọn, có cấu trúc rõ ràng, huyền bí nhưng thực tế. Không chẩn đoán bệnh, không khuyến nghị mã chứng khoán, con số hay sản phẩm tài chính cụ thể, không tư vấn pháp lý: hãy từ chối nhẹ nhàng và gợi ý người hỏi tìm chuyên gia phù hợp.`

// System returns the fixed system instruction for the given day.
func System(now time.Time) string {
	return fmt.Sprintf(systemTemplate, now.Format("02/01/2006"))
}

// Build assembles the prompt bundle. snippets are expected to be filtered already; history
// must be chronological and is trimmed to the last MaxHistoryTurns entries.
func Build(now time.Time, redactedContext string, keywords []string, snippets []model.KnowledgeSnippet, history []model.ConversationTurn, question string) model.PromptBundle {
	var sb strings.Builder

	sb.WriteString("DỮ LIỆU TÍNH TOÁN:\n")
	sb.WriteString(redactedContext)
	sb.WriteString("\n\n")

	sb.WriteString("THÔNG TIN BỔ TRỢ TỪ SÁCH")
	if len(keywords) > 0 {
		fmt.Fprintf(&sb, " (tra cứu theo: %s)", strings.Join(keywords, ", "))
	}
	sb.WriteString(":\n")
	if len(snippets) == 0 {
		sb.WriteString(NoReferenceMaterial)
		sb.WriteString("\n")
	}
	for _, s := range snippets {
		fmt.Fprintf(&sb, "- [%s] %s\n", s.Title, strings.TrimSpace(s.Text))
	}
	sb.WriteString("\n")

	sb.WriteString("LỊCH SỬ TRÒ CHUYỆN GẦN ĐÂY:\n")
	recent := history
	if len(recent) > MaxHistoryTurns {
		recent = recent[len(recent)-MaxHistoryTurns:]
	}
	if len(recent) == 0 {
		sb.WriteString("(Chưa có.)\n")
	}
	for _, turn := range recent {
		fmt.Fprintf(&sb, "%s: %s\n", speaker(turn.Role), strings.TrimSpace(turn.Text))
	}
	sb.WriteString("\n")

	if strings.TrimSpace(question) == "" {
		question = DefaultTarotQuestion
	}
	sb.WriteString("CÂU HỎI CỦA NGƯỜI DÙNG:\n")
	fmt.Fprintf(&sb, "\"%s\"\n\n", strings.TrimSpace(question))
	sb.WriteString("Hãy trả lời câu hỏi trên dựa vào các dữ liệu đã cung cấp.")

	return model.PromptBundle{
		SystemInstruction: System(now),
		UserInstruction:   sb.String(),
	}
}

func speaker(r model.Role) string {
	if r == model.RoleAssistant {
		return "Trợ lý"
	}
	return "Người dùng"
}
