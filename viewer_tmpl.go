package varviper

import "text/template"

// viewerData carries the two inlined JSON blobs into the page template.
// Both come straight out of encoding/json, which escapes <, >, and & inside
// strings, so neither blob can close the script element it is embedded in.
type viewerData struct {
	SummaryJSON string
	ContentJSON string
}

var viewerTmpl = template.Must(template.New("viewer").Parse(viewerHTML))

// viewerHTML is the whole static document: Monokai stylesheet, layout,
// the interactive runtime, and the boot script that wires the sidebar.
//
// The runtime lives in the script element with id "viper-runtime" and
// exposes one parameterized entry point, initInteractive(root, doc).
// Pop-out windows copy that single element's text and call the same entry
// point against their own container, so main view and pop-outs share one
// source of truth for interactive behavior. Per-document state (drag
// anchor, active selection) is created lazily per document instance and is
// never shared across windows.
//
// The JS is written without template literals: the template is a Go raw
// string, so backticks cannot appear in it.
const viewerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<script src="https://cdn.plot.ly/plotly-2.27.0.min.js"></script>
<title>Var Viper</title>
<style id="viper-styles">
/* Monokai theme */
:root {
    --bg: #272822;
    --sidebar-bg: #1e1f1c;
    --fg: #f8f8f2;
    --border: #49483e;
    --accent-pink: #f92672;
    --accent-blue: #66d9ef;
    --accent-green: #a6e22e;
    --accent-yellow: #e6db74;
    --muted: #75715e;
    --selection: #49483e;
    --table-head: #66d9ef;
    --table-head-text: #272822;
}
* { box-sizing: border-box; }
body { font-family: 'Consolas', 'Monaco', 'Courier New', monospace; margin: 0; height: 100vh; overflow: hidden; display: flex; background: var(--bg); color: var(--fg); }

/* Layout */
#sidebar { width: 300px; min-width: 150px; max-width: 50%; background: var(--sidebar-bg); display: flex; flex-direction: column; }
#sidebar-resizer { width: 6px; background-color: var(--bg); border-left: 1px solid var(--border); border-right: 1px solid var(--border); cursor: col-resize; user-select: none; z-index: 10; }
#sidebar-resizer:hover, #sidebar-resizer.resizing { background-color: var(--accent-pink); }
#content { flex: 1; overflow: hidden; display: flex; flex-direction: column; background: var(--bg); }
.sidebar-header { padding: 15px; background: #171814; font-weight: bold; border-bottom: 1px solid var(--border); color: var(--accent-green); letter-spacing: 1px; white-space: nowrap; overflow: hidden; display: flex; justify-content: space-between; align-items: center; }
#sort-select { background: #3e3d32; color: var(--fg); border: 1px solid var(--border); border-radius: 4px; font-size: 0.8em; padding: 4px; outline: none; cursor: pointer; margin-left: 10px; }
#var-list { overflow-y: auto; flex: 1; }
#viewer-header { padding: 15px; border-bottom: 1px solid var(--border); background: var(--sidebar-bg); font-size: 1.2em; font-weight: bold; height: 60px; display: flex; align-items: center; color: var(--accent-blue); }
#viewer-body { flex: 1; overflow: auto; padding: 20px; position: relative; }

/* Sidebar items */
.var-item { padding: 6px 10px; border-bottom: 1px solid var(--border); cursor: pointer; overflow: hidden; }
.var-item:hover { background: #3e3d32; }
.var-item.active { background: var(--selection); border-left: 4px solid var(--accent-pink); padding-left: 6px; }
.var-item .header-row { display: flex; justify-content: space-between; align-items: center; }
.var-item .type-tag { font-size: 0.7em; background: var(--border); padding: 2px 6px; border-radius: 4px; color: var(--accent-blue); flex-shrink: 0; margin-left: 5px; }
.var-item.active .type-tag { background: var(--accent-pink); color: white; }
.var-item strong { color: var(--fg); font-size: 0.9em; white-space: nowrap; overflow: hidden; text-overflow: ellipsis; }
.var-item .meta { font-size: 0.75em; color: var(--muted); margin-top: 2px; display: block; white-space: nowrap; overflow: hidden; text-overflow: ellipsis; }

/* Tables */
.table-wrapper { overflow: auto; max-height: 700px; border: 1px solid var(--border); margin-top: 5px; background: var(--bg); }
.styled-table { border-collapse: collapse; font-size: 0.9em; width: auto; min-width: 100%; table-layout: auto; }
.styled-table th { background-color: var(--table-head); color: var(--table-head-text); position: sticky; top: 0; z-index: 2; padding: 10px; text-align: left; border-right: 1px solid rgba(0,0,0,0.1); white-space: nowrap; overflow: hidden; text-overflow: ellipsis; position: relative; }
.styled-table td { padding: 8px 10px; border-bottom: 1px solid var(--border); border-right: 1px solid var(--border); white-space: nowrap; overflow: hidden; text-overflow: ellipsis; color: var(--fg); }
.styled-table td[style*="background-color"] { color: white; text-shadow: 0px 0px 2px black; }
.col-resizer { position: absolute; right: 0; top: 0; height: 100%; width: 5px; cursor: col-resize; user-select: none; touch-action: none; opacity: 0; }
.styled-table th:hover .col-resizer { opacity: 1; background-color: rgba(0,0,0,0.2); }
.col-resizer.resizing { opacity: 1; background-color: var(--accent-pink); }
.truncation-note { padding: 5px; color: var(--muted); font-style: italic; }

/* Tree view */
.tree-wrapper { font-family: Consolas, monospace; font-size: 0.95em; }
ul.tree { list-style: none; padding-left: 20px; margin: 0; }
ul.tree li { margin: 6px 0; }
details > summary { list-style: none; cursor: pointer; outline: none; color: var(--accent-blue); }
details > summary::-webkit-details-marker { display: none; }
details summary::before { content: '\25B6'; display: inline-block; margin-right: 6px; font-size: 0.8em; color: var(--border); }
details[open] > summary::before { transform: rotate(90deg); color: var(--accent-pink); }
.key { color: var(--accent-pink); font-weight: bold; }
.val { color: var(--accent-yellow); white-space: pre-wrap; word-break: break-word; }
.meta { color: var(--muted); font-size: 0.85em; font-style: italic; }
.row-item { padding-left: 20px; }
.tree-note { color: var(--muted); font-style: italic; margin-top: 5px; }

.text-box { font-size: 1.5em; padding: 30px; background: var(--sidebar-bg); border: 1px solid var(--border); border-radius: 8px; display: inline-block; white-space: pre-wrap; color: var(--accent-yellow); min-width: 200px; text-align: center; }
.error-box { color: #ff4444; background-color: #330000; border: 1px solid red; padding: 15px; }
.placeholder { text-align: center; color: var(--muted); margin-top: 20vh; }

/* Selection and plot */
.selected-cell { box-shadow: inset 0 0 0 2px var(--accent-pink); background-color: rgba(249, 38, 114, 0.2) !important; }
#plot-btn { position: fixed; bottom: 20px; right: 20px; background: var(--accent-pink); color: white; border: none; padding: 10px 20px; border-radius: 4px; cursor: pointer; font-weight: bold; display: none; z-index: 100; box-shadow: 0 4px 6px rgba(0,0,0,0.3); font-size: 14px; }
#plot-btn:hover { background: #ff4081; }
</style>
</head>
<body>
<div id="sidebar">
    <div class="sidebar-header">
        <span>VAR VIPER</span>
        <select id="sort-select" title="Sort Variables">
            <option value="created">Created (first)</option>
            <option value="created-desc">Created (last)</option>
            <option value="alpha">Name (A-Z)</option>
            <option value="alpha-desc">Name (Z-A)</option>
        </select>
    </div>
    <div id="var-list"></div>
</div>
<div id="sidebar-resizer"></div>
<div id="content">
    <div id="viewer-header">Variable Explorer</div>
    <div id="viewer-body">
        <div class="placeholder"><h2>Select a variable to inspect</h2></div>
    </div>
</div>

<button id="plot-btn">Plot Selection</button>

<script id="viper-runtime">
'use strict';

// Per-document runtime state. Created lazily the first time a document is
// initialized; the document-level mouseup/keydown listeners are installed
// exactly once per document.
function viperState(doc) {
    if (!doc.__viperState) {
        var st = { mouseDown: false, anchor: null, activeTable: null };
        doc.__viperState = st;
        doc.addEventListener('mouseup', function () { st.mouseDown = false; });
        doc.addEventListener('keydown', function (e) { copySelection(e, doc); });
    }
    return doc.__viperState;
}

// initInteractive wires the interactive behaviors onto every table below
// root. It is the single entry point shared by the main view and pop-outs.
function initInteractive(root, doc) {
    var st = viperState(doc);
    root.querySelectorAll('table').forEach(function (table) {
        makeColResizable(table, doc);
        if (table.classList.contains('heatmap-table')) applyHeatmap(table);
        makeTableSelectable(table, st, doc);
    });
    updatePlotButton(doc);
}

function clearSelection(doc) {
    doc.querySelectorAll('.selected-cell').forEach(function (c) {
        c.classList.remove('selected-cell');
    });
}

function makeTableSelectable(table, st, doc) {
    table.querySelectorAll('td').forEach(function (cell) {
        cell.style.userSelect = 'none';
        cell.addEventListener('mousedown', function (e) {
            if (e.button !== 0) return;
            st.mouseDown = true;
            st.anchor = cell;
            st.activeTable = table;
            clearSelection(doc);
            cell.classList.add('selected-cell');
            updatePlotButton(doc);
        });
        cell.addEventListener('mouseover', function () {
            if (st.mouseDown && st.activeTable === table && st.anchor) {
                selectRange(table, st.anchor, cell, doc);
            }
        });
    });
    table.querySelectorAll('th').forEach(function (th) {
        th.style.cursor = 'pointer';
        th.title = 'Click to select row/column';
        th.addEventListener('click', function (e) {
            if (e.target.classList.contains('col-resizer')) return;
            clearSelection(doc);
            var row = th.parentElement;
            if (row.parentElement.tagName === 'THEAD') {
                var colIdx = th.cellIndex;
                table.querySelectorAll('tbody tr').forEach(function (r) {
                    var cell = r.children[colIdx];
                    if (cell && cell.tagName === 'TD') cell.classList.add('selected-cell');
                });
            } else {
                row.querySelectorAll('td').forEach(function (c) {
                    c.classList.add('selected-cell');
                });
            }
            updatePlotButton(doc);
        });
    });
}

// selectRange selects the rectangle spanned by the anchor cell and the
// current cell, inclusive on both index bounds.
function selectRange(table, start, end, doc) {
    var minRow = Math.min(start.parentElement.rowIndex, end.parentElement.rowIndex);
    var maxRow = Math.max(start.parentElement.rowIndex, end.parentElement.rowIndex);
    var minCol = Math.min(start.cellIndex, end.cellIndex);
    var maxCol = Math.max(start.cellIndex, end.cellIndex);
    clearSelection(doc);
    for (var r = minRow; r <= maxRow; r++) {
        var row = table.rows[r];
        if (!row) continue;
        for (var c = minCol; c <= maxCol; c++) {
            var cell = row.cells[c];
            if (cell && cell.tagName === 'TD') cell.classList.add('selected-cell');
        }
    }
    updatePlotButton(doc);
}

function updatePlotButton(doc) {
    var btn = doc.getElementById('plot-btn');
    if (!btn) return;
    var count = doc.querySelectorAll('.selected-cell').length;
    if (count > 1) {
        btn.style.display = 'block';
        btn.textContent = 'Plot ' + count + ' points';
    } else {
        btn.style.display = 'none';
    }
}

// copySelection serializes the current selection as tab-separated rows,
// ordered by row index then column index regardless of selection order.
function copySelection(e, doc) {
    if (!(e.ctrlKey || e.metaKey) || e.key !== 'c') return;
    var selected = doc.querySelectorAll('.selected-cell');
    if (selected.length === 0) return;
    e.preventDefault();
    var rows = {};
    selected.forEach(function (cell) {
        var r = cell.parentElement.rowIndex;
        if (!rows[r]) rows[r] = [];
        rows[r].push(cell);
    });
    var tsv = Object.keys(rows).sort(function (a, b) { return a - b; }).map(function (idx) {
        var cells = rows[idx];
        cells.sort(function (a, b) { return a.cellIndex - b.cellIndex; });
        return cells.map(function (c) { return c.textContent.trim(); }).join('\t');
    }).join('\n');
    var ta = doc.createElement('textarea');
    ta.value = tsv;
    doc.body.appendChild(ta);
    ta.select();
    doc.execCommand('copy');
    doc.body.removeChild(ta);
    var btn = doc.getElementById('plot-btn');
    if (btn && btn.style.display !== 'none') {
        var orig = btn.textContent;
        btn.textContent = 'Copied!';
        setTimeout(function () { btn.textContent = orig; }, 1000);
    }
}

// plotData parses the selected cells, drops placeholders and non-numeric
// text, and plots the remaining ordered values as one line series in a new
// window. Fewer than 2 valid values is an explicit rejection.
function plotData(doc) {
    var data = [];
    doc.querySelectorAll('.selected-cell').forEach(function (c) {
        var txt = c.textContent.trim();
        if (txt === '' || txt === 'NaN' || txt === 'None') return;
        var val = parseFloat(txt);
        if (!isNaN(val) && isFinite(val)) data.push(val);
    });
    if (data.length < 2) {
        alert('Select at least 2 numeric values to plot.');
        return;
    }
    var win = window.open('', '_blank', 'width=800,height=600');
    if (!win) {
        alert('Pop-up blocked!');
        return;
    }
    var SC = '</scr' + 'ipt>';
    var page = '<!DOCTYPE html><html><head><title>Data Plot</title>'
        + '<scr' + 'ipt src="https://cdn.plot.ly/plotly-2.27.0.min.js">' + SC
        + '<style>body { background: #272822; color: #f8f8f2; margin: 0; padding: 0; overflow: hidden; font-family: sans-serif; } #chart { width: 100vw; height: 100vh; }</style>'
        + '</head><body><div id="chart"></div>'
        + '<scr' + 'ipt>'
        + 'var data = ' + JSON.stringify(data) + ';'
        + 'var trace = { y: data, mode: "lines", type: "scatter", line: { width: 1, color: "#66d9ef" } };'
        + 'var layout = { paper_bgcolor: "#272822", plot_bgcolor: "#272822",'
        + ' font: { color: "#f8f8f2" }, margin: { t: 50, r: 20, l: 50, b: 50 },'
        + ' xaxis: { gridcolor: "#49483e", zerolinecolor: "#49483e" },'
        + ' yaxis: { gridcolor: "#49483e", zerolinecolor: "#49483e" },'
        + ' title: "Selected Data Plot" };'
        + 'Plotly.newPlot("chart", [trace], layout, { responsive: true });'
        + SC
        + '</body></html>';
    win.document.write(page);
    win.document.close();
}

// applyHeatmap colors numeric cells on a two-channel ramp over one global
// min/max for the whole table. Column 0 is the row label column and is
// skipped; a column containing any non-numeric, non-placeholder cell is
// skipped entirely; a degenerate range (min == max) applies no color.
function applyHeatmap(table) {
    var rows = Array.prototype.slice.call(table.querySelectorAll('tbody tr'));
    if (rows.length === 0) return;
    var colCount = rows[0].children.length;
    var allCells = [];
    var minV = Infinity;
    var maxV = -Infinity;
    for (var c = 1; c < colCount; c++) {
        var colCells = [];
        var numeric = true;
        for (var r = 0; r < rows.length; r++) {
            var cell = rows[r].children[c];
            if (!cell) continue;
            var txt = cell.textContent.trim();
            if (txt === '' || txt === 'NaN' || txt === 'None') continue;
            var num = parseFloat(txt);
            if (isNaN(num) || !isFinite(num)) {
                numeric = false;
                break;
            }
            colCells.push({ el: cell, val: num });
        }
        if (numeric && colCells.length > 0) {
            colCells.forEach(function (item) {
                allCells.push(item);
                if (item.val < minV) minV = item.val;
                if (item.val > maxV) maxV = item.val;
            });
        }
    }
    if (allCells.length === 0 || minV === maxV) return;
    allCells.forEach(function (item) {
        var ratio = (item.val - minV) / (maxV - minV);
        var red = Math.round(255 * ratio);
        var blue = Math.round(255 * (1 - ratio));
        item.el.style.backgroundColor = 'rgba(' + red + ', 0, ' + blue + ', 0.7)';
    });
}

// makeColResizable attaches a drag handle to each header cell. The
// mousemove/mouseup listeners are installed on press and removed on
// release; changing one column's width never reflows the others.
function makeColResizable(table, doc) {
    table.querySelectorAll('th').forEach(function (th) {
        if (th.querySelector('.col-resizer')) return;
        var resizer = doc.createElement('div');
        resizer.classList.add('col-resizer');
        th.appendChild(resizer);
        var x = 0;
        var w = 0;
        var mm = function (e) {
            th.style.width = (w + (e.clientX - x)) + 'px';
        };
        var mu = function () {
            doc.removeEventListener('mousemove', mm);
            doc.removeEventListener('mouseup', mu);
            resizer.classList.remove('resizing');
        };
        resizer.addEventListener('mousedown', function (e) {
            x = e.clientX;
            w = parseInt(doc.defaultView.getComputedStyle(th).width, 10);
            doc.addEventListener('mousemove', mm);
            doc.addEventListener('mouseup', mu);
            resizer.classList.add('resizing');
            e.stopPropagation();
        });
        resizer.addEventListener('click', function (e) { e.stopPropagation(); });
    });
}

function escapeHtml(s) {
    return String(s)
        .split('&').join('&amp;')
        .split('<').join('&lt;')
        .split('>').join('&gt;')
        .split('"').join('&quot;');
}

// popOutFragment opens an isolated window holding one already-rendered
// fragment plus a fresh copy of this runtime, initialized against the new
// document. No state is shared with the opener.
function popOutFragment(title, content, doc) {
    var styles = doc.getElementById('viper-styles').innerHTML;
    var runtimeSrc = doc.getElementById('viper-runtime').textContent;
    var win = window.open('', '_blank', 'width=900,height=700');
    if (!win) {
        alert('Pop-up blocked!');
        return;
    }
    var SC = '</scr' + 'ipt>';
    var safeTitle = escapeHtml(title);
    var page = '<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">'
        + '<title>' + safeTitle + ' - Var Viper</title>'
        + '<style id="viper-styles">' + styles + '</style>'
        + '<style>'
        + 'body { overflow: auto; padding: 0; background: var(--bg); height: 100vh; display: flex; flex-direction: column; }'
        + '.table-wrapper { border: none; max-height: none; flex: 1; margin: 0; }'
        + '#popout-container { padding: 20px; flex: 1; display: flex; flex-direction: column; }'
        + 'h2 { margin-top: 0; color: var(--accent-pink); }'
        + '</style>'
        + '</head><body>'
        + '<div id="popout-container"><h2>' + safeTitle + '</h2>' + content + '</div>'
        + '<button id="plot-btn">Plot Selection</button>'
        + '<scr' + 'ipt id="viper-runtime">' + runtimeSrc + SC
        + '<scr' + 'ipt>'
        + 'initInteractive(document.getElementById("popout-container"), document);'
        + 'document.getElementById("plot-btn").addEventListener("click", function () { plotData(document); });'
        + SC
        + '</body></html>';
    win.document.write(page);
    win.document.close();
}
</script>

<script id="viper-boot">
'use strict';

var variables = {{.SummaryJSON}};
var contentData = {{.ContentJSON}};

var listEl = document.getElementById('var-list');
var headerEl = document.getElementById('viewer-header');
var bodyEl = document.getElementById('viewer-body');
var sortSelect = document.getElementById('sort-select');

renderList(variables);

sortSelect.addEventListener('change', function () {
    var mode = sortSelect.value;
    var sorted = variables.slice();
    if (mode === 'alpha') {
        sorted.sort(function (a, b) { return a.id.localeCompare(b.id); });
    } else if (mode === 'alpha-desc') {
        sorted.sort(function (a, b) { return b.id.localeCompare(a.id); });
    } else if (mode === 'created-desc') {
        sorted.reverse();
    }
    renderList(sorted);
});

function renderList(items) {
    listEl.innerHTML = '';
    items.forEach(function (v) {
        var div = document.createElement('div');
        div.className = 'var-item';
        if (headerEl.textContent === v.id) div.classList.add('active');
        var head = document.createElement('div');
        head.className = 'header-row';
        var name = document.createElement('strong');
        name.textContent = v.id;
        var tag = document.createElement('span');
        tag.className = 'type-tag';
        tag.textContent = v.type;
        head.appendChild(name);
        head.appendChild(tag);
        var meta = document.createElement('div');
        meta.className = 'meta';
        meta.textContent = v.size;
        div.appendChild(head);
        div.appendChild(meta);
        div.onclick = function () { loadVariable(v.id, div); };
        div.ondblclick = function () { popOutFragment(v.id, contentData[v.id], document); };
        listEl.appendChild(div);
    });
}

function loadVariable(id, element) {
    document.querySelectorAll('.var-item').forEach(function (el) {
        el.classList.remove('active');
    });
    if (element) element.classList.add('active');
    headerEl.textContent = id;
    bodyEl.innerHTML = contentData[id];
    initInteractive(bodyEl, document);
}

document.getElementById('plot-btn').addEventListener('click', function () { plotData(document); });

(function () {
    var sidebar = document.getElementById('sidebar');
    var resizer = document.getElementById('sidebar-resizer');
    var x = 0;
    var w = 0;
    var mm = function (e) {
        var newW = w + (e.clientX - x);
        if (newW > 100 && newW < window.innerWidth * 0.6) sidebar.style.width = newW + 'px';
    };
    var mu = function () {
        document.removeEventListener('mousemove', mm);
        document.removeEventListener('mouseup', mu);
        resizer.classList.remove('resizing');
    };
    resizer.addEventListener('mousedown', function (e) {
        x = e.clientX;
        w = parseInt(window.getComputedStyle(sidebar).width, 10);
        document.addEventListener('mousemove', mm);
        document.addEventListener('mouseup', mu);
        resizer.classList.add('resizing');
    });
})();
</script>
</body>
</html>
`
