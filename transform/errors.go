// Пакет transform реализует атомарные операции редактирования над
// неизменяемым снимком редактора. Каждая операция принимает снимок и
// возвращает новый; операции накапливаются в Change и фиксируются в
// истории одним шагом undo.
package transform

import "errors"

// ErrStructural возвращается операциям, получившим координаты, которых нет
// в текущем снимке: неизвестный ключ узла, смещение за границей текста,
// unwrap отсутствующего типа. Такой вызов - ошибка вызывающего кода:
// снимок не изменяется, ошибка поднимается наверх без восстановления.
var ErrStructural = errors.New("structural error")
